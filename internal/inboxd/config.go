package inboxd

import "time"

// Config is the environment-driven configuration of the inbox API daemon.
type Config struct {
	Addr             string        `env:"INBOXD_ADDR,default=:8000"`
	BadgerPath       string        `env:"INBOXD_BADGER_PATH,required=true"`
	LogLevel         string        `env:"INBOXD_LOG_LEVEL,default=INFO"`
	MaxContentLength int           `env:"INBOXD_MAX_CONTENT_LENGTH,default=65536"`
	DefaultPageSize  int           `env:"INBOXD_DEFAULT_PAGE_SIZE,default=50"`
	MaxPageSize      int           `env:"INBOXD_MAX_PAGE_SIZE,default=200"`
	ShutdownTimeout  time.Duration `env:"INBOXD_SHUTDOWN_TIMEOUT,default=10s"`
}
