package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// LogLevel represents the severity of a message
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarning
	LogLevelError
	LogLevelSuccess
)

// flashDuration is how long a transient notification stays in the flash row.
const flashDuration = 4 * time.Second

// ErrorHandler provides consistent error handling and user feedback
type ErrorHandler struct {
	mu         sync.RWMutex
	app        *tview.Application
	statusView *tview.TextView
	flashView  *tview.TextView
	logger     *log.Logger

	currentStatus string
	currentFlash  string
	statusTimer   *time.Timer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(app *tview.Application, statusView, flashView *tview.TextView, logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{
		app:        app,
		statusView: statusView,
		flashView:  flashView,
		logger:     logger,
	}
}

// HandleError logs the technical error and shows a user-friendly message
func (eh *ErrorHandler) HandleError(ctx context.Context, err error, userMsg string) {
	if err == nil {
		return
	}

	if eh.logger != nil {
		eh.logger.Printf("ERROR: %v", err)
	}

	if userMsg == "" {
		userMsg = "An error occurred"
	}

	eh.ShowMessage(ctx, userMsg, LogLevelError)
}

// ShowMessage displays a message in the status bar
func (eh *ErrorHandler) ShowMessage(ctx context.Context, msg string, level LogLevel) {
	if strings.TrimSpace(msg) == "" {
		return
	}

	formattedMsg := eh.formatMessage(msg, level)

	if eh.logger != nil {
		eh.logger.Printf("%s: %s", eh.levelToString(level), msg)
	}

	if eh.app != nil {
		eh.app.QueueUpdateDraw(func() {
			eh.updateStatusMessage(formattedMsg)
		})
	}
}

// ShowMessageDirect updates the status bar without queueing a draw. Only
// call from the UI goroutine (event handlers).
func (eh *ErrorHandler) ShowMessageDirect(msg string, level LogLevel) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	if eh.logger != nil {
		eh.logger.Printf("%s: %s", eh.levelToString(level), msg)
	}
	eh.updateStatusMessage(eh.formatMessage(msg, level))
}

// ShowFlashMessage shows a transient notification in the flash row. Safe to
// call from any goroutine; the draw is queued.
func (eh *ErrorHandler) ShowFlashMessage(ctx context.Context, msg string, level LogLevel, duration time.Duration) {
	if eh.flashView == nil {
		eh.ShowMessage(ctx, msg, level)
		return
	}
	if eh.logger != nil {
		eh.logger.Printf("%s: %s", eh.levelToString(level), msg)
	}
	if eh.app != nil {
		eh.app.QueueUpdateDraw(func() {
			eh.ShowFlashDirect(msg, level, duration)
		})
	}
}

// ShowFlashDirect writes the flash row without queueing a draw. Only call
// from the UI goroutine. The row clears after duration unless a newer flash
// replaced it.
func (eh *ErrorHandler) ShowFlashDirect(msg string, level LogLevel, duration time.Duration) {
	if eh.flashView == nil || strings.TrimSpace(msg) == "" {
		return
	}
	formattedMsg := eh.formatMessage(msg, level)

	eh.mu.Lock()
	eh.currentFlash = formattedMsg
	eh.mu.Unlock()

	eh.flashView.SetText(formattedMsg)
	eh.flashView.SetTextColor(eh.levelToColor(level))

	if eh.app == nil {
		return
	}
	time.AfterFunc(duration, func() {
		eh.app.QueueUpdateDraw(func() {
			eh.mu.Lock()
			defer eh.mu.Unlock()
			if eh.currentFlash == formattedMsg {
				eh.currentFlash = ""
				eh.flashView.SetText("")
			}
		})
	})
}

func (eh *ErrorHandler) formatMessage(msg string, level LogLevel) string {
	var icon string
	switch level {
	case LogLevelInfo:
		icon = "ℹ️"
	case LogLevelWarning:
		icon = "⚠️"
	case LogLevelError:
		icon = "❌"
	case LogLevelSuccess:
		icon = "✅"
	default:
		icon = "•"
	}
	return fmt.Sprintf("%s %s", icon, msg)
}

func (eh *ErrorHandler) levelToString(level LogLevel) string {
	switch level {
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarning:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelSuccess:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}

func (eh *ErrorHandler) levelToColor(level LogLevel) tcell.Color {
	switch level {
	case LogLevelWarning:
		return tcell.ColorYellow
	case LogLevelError:
		return tcell.ColorRed
	case LogLevelSuccess:
		return tcell.ColorGreen
	default:
		return tcell.ColorWhite
	}
}

// updateStatusMessage updates the status message with auto-clear
func (eh *ErrorHandler) updateStatusMessage(msg string) {
	if eh.statusView == nil {
		return
	}

	eh.mu.Lock()
	defer eh.mu.Unlock()

	if eh.statusTimer != nil {
		eh.statusTimer.Stop()
	}

	eh.currentStatus = msg
	eh.statusView.SetText(msg)

	// Auto-clear after 5 seconds unless a newer message replaced this one.
	currentMsg := msg
	eh.statusTimer = time.AfterFunc(5*time.Second, func() {
		eh.clearCurrentStatusSafely(currentMsg)
	})
}

func (eh *ErrorHandler) clearCurrentStatusSafely(expectedMsg string) {
	if eh.app == nil {
		return
	}
	eh.app.QueueUpdateDraw(func() {
		eh.mu.Lock()
		defer eh.mu.Unlock()
		if eh.currentStatus == expectedMsg {
			eh.currentStatus = ""
			eh.statusView.SetText("")
		}
	})
}
