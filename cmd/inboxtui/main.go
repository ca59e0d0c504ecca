package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/acastano/inboxtui/internal/client"
	"github.com/acastano/inboxtui/internal/config"
	"github.com/acastano/inboxtui/internal/db"
	"github.com/acastano/inboxtui/internal/services"
	"github.com/acastano/inboxtui/internal/tui"
	"github.com/acastano/inboxtui/internal/version"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/inboxtui/config.json)")
	agentFlag := flag.String("agent", "", "Agent identity override")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	configPath := getConfigPath(*configPathFlag)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		cfg = config.DefaultConfig()
	}
	if *agentFlag != "" {
		cfg.Agent = *agentFlag
	}

	storeClient := client.New(cfg.APIBase, cfg.Agent, cfg.GetTimeout())

	// Snapshot cache is best effort; the dashboard runs without it.
	var cacheService services.CacheService
	ctx := context.Background()
	dbPath := filepath.Join(config.DefaultCacheDir(), cfg.Agent+".sqlite3")
	if store, err := db.Open(ctx, dbPath); err == nil {
		cacheService = services.NewCacheService(store, cfg.GetCacheTTL())
		defer func() { _ = store.Close() }()
	} else {
		log.Printf("Warning: could not open cache store: %v", err)
	}

	app := tui.NewApp(storeClient, cacheService, cfg)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath resolves the configuration file path:
// 1. CLI flag
// 2. Environment variable INBOXTUI_CONFIG
// 3. Default path ~/.config/inboxtui/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPath := os.Getenv("INBOXTUI_CONFIG"); envPath != "" {
		return envPath
	}
	return config.DefaultConfigPath()
}
