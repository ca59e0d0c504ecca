package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/acastano/inboxtui/internal/config"
	"github.com/acastano/inboxtui/internal/mailbox"
	"github.com/acastano/inboxtui/internal/render"
	"github.com/acastano/inboxtui/internal/services"
)

// View names registered in the views map.
const (
	viewList    = "list"
	viewContent = "content"
	viewFolders = "folders"
	viewStatus  = "status"
	viewFlash   = "flash"
)

// App encapsulates the terminal UI and the inbox services.
//
// The mailbox model is owned by the UI goroutine: event handlers touch it
// directly, network completions come back through QueueUpdateDraw.
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config
	Keys   config.KeyBindings

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	views  map[string]tview.Primitive

	renderer *render.MessageRenderer
	model    *mailbox.Model

	repository   services.MessageRepository
	inboxService services.InboxService
	cacheService services.CacheService
	recipients   []string

	errorHandler *ErrorHandler

	screenWidth  int
	screenHeight int
	showHelp     bool
	uiReady      bool

	logger  *log.Logger
	logFile *os.File
}

// NewApp creates the TUI application on top of a store client.
func NewApp(store services.StoreClient, cacheService services.CacheService, cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		Application:  tview.NewApplication(),
		Pages:        tview.NewPages(),
		Config:       cfg,
		Keys:         cfg.Keys,
		ctx:          ctx,
		cancel:       cancel,
		views:        make(map[string]tview.Primitive),
		renderer:     render.NewMessageRenderer(cfg.Agent),
		model:        mailbox.NewModel(cfg.Agent, cfg.PageSize),
		cacheService: cacheService,
		screenWidth:  80,
		screenHeight: 25,
	}

	app.initLogger()
	app.initServices(store)
	app.initViews()
	app.initErrorHandler()
	app.bindKeys()

	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		if !app.uiReady {
			app.uiReady = true
		}
		w, h := screen.Size()
		if w != app.screenWidth || h != app.screenHeight {
			app.screenWidth, app.screenHeight = w, h
			app.refreshList()
		}
		return false
	})

	return app
}

func (a *App) initServices(store services.StoreClient) {
	a.repository = services.NewMessageRepository(store)

	recipients, err := config.LoadRecipients(a.Config.RecipientsFile)
	if err != nil && a.logger != nil {
		a.logger.Printf("could not load recipients file: %v", err)
	}
	a.recipients = recipients

	svc := services.NewInboxService(a.repository, a.Config.Agent, recipients)
	if a.logger != nil {
		svc.SetLogger(a.logger)
	}
	a.inboxService = svc
}

// initLogger opens the configured log file, if any. Logging to stdout
// would corrupt the terminal UI.
func (a *App) initLogger() {
	path := a.Config.LogFile
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	a.logFile = f
	a.logger = log.New(f, "[inboxtui] ", log.LstdFlags|log.Lmicroseconds)
}

func (a *App) initViews() {
	folders := tview.NewTextView().SetDynamicColors(true)
	folders.SetBorderPadding(0, 0, 1, 1)

	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetTitle(" Inbox ")
	list.SetHighlightFullLine(true)

	content := tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	content.SetBorder(true)
	content.SetTitle(" Message ")

	status := tview.NewTextView().SetDynamicColors(true)
	flash := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)

	a.views[viewFolders] = folders
	a.views[viewList] = list
	a.views[viewContent] = content
	a.views[viewStatus] = status
	a.views[viewFlash] = flash

	list.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		a.showMessageAt(index)
	})

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(folders, 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(list, 0, 1, true).
			AddItem(content, 0, 1, false), 0, 1, true).
		AddItem(flash, 1, 0, false).
		AddItem(status, 1, 0, false)

	a.Pages.AddPage("main", main, true, true)
	a.SetRoot(a.Pages, true)

	a.renderFolderBar()
}

func (a *App) initErrorHandler() {
	a.errorHandler = NewErrorHandler(
		a.Application,
		a.views[viewStatus].(*tview.TextView),
		a.views[viewFlash].(*tview.TextView),
		a.logger,
	)
}

// GetErrorHandler returns the central error handler.
func (a *App) GetErrorHandler() *ErrorHandler {
	return a.errorHandler
}

func (a *App) list() *tview.List {
	return a.views[viewList].(*tview.List)
}

func (a *App) contentView() *tview.TextView {
	return a.views[viewContent].(*tview.TextView)
}

func (a *App) folderBar() *tview.TextView {
	return a.views[viewFolders].(*tview.TextView)
}

// renderFolderBar redraws the folder strip, highlighting the active one.
func (a *App) renderFolderBar() {
	active := a.model.Folder()
	var out string
	for _, f := range mailbox.Folders() {
		if f == active {
			out += fmt.Sprintf("[black:aqua] %s [-:-] ", f)
		} else {
			out += fmt.Sprintf(" %s  ", f)
		}
	}
	out += fmt.Sprintf("[gray]· %s[-]", a.Config.Agent)
	a.folderBar().SetText(out)
}

// Run starts the application.
func (a *App) Run() error {
	defer a.cleanup()

	// Warm start from the snapshot cache, then fetch the first page; the
	// fetch refreshes seeded entries in place instead of blanking the list.
	a.warmStart()
	a.fetchNextPage(true)

	return a.Application.Run()
}

// Stop shuts the UI down.
func (a *App) Stop() {
	a.cancel()
	a.Application.Stop()
}

func (a *App) cleanup() {
	a.cancel()
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
