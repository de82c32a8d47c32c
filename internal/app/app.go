package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/pixed/internal/config"
	"github.com/dshills/pixed/internal/plugin/lua"
	"github.com/dshills/pixed/internal/renderer"
	"github.com/dshills/pixed/internal/renderer/backend"
)

// Application is the central coordinator for the terminal editor.
// It owns the session; only the event loop goroutine touches it while Run
// is active.
type Application struct {
	mu sync.Mutex

	config  *config.Config
	logger  *Logger
	logFile io.Closer

	backend  backend.Backend
	renderer *renderer.Renderer
	session  *Session

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
	reloads  chan struct{}

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	// Empty uses config.DefaultPath.
	ConfigPath string

	// Width and Height override the configured canvas size when positive.
	Width  int
	Height int

	// LogLevel and LogFile override the configured logging section.
	LogLevel string
	LogFile  string

	// LogOutput, when set, receives log lines instead of a file or stderr.
	LogOutput io.Writer

	// Script is a Lua paint script run against the session at startup.
	Script string

	// NoWatch disables live reload of the configuration file.
	NoWatch bool

	// Interactive marks a terminal session; logs without a log file are
	// discarded so they do not draw over the screen.
	Interactive bool

	// ConfigOptions are appended to the config options; used by tests.
	ConfigOptions []config.Option
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		reloads: make(chan struct{}, 1),
	}

	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	path := app.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	configOpts := []config.Option{
		config.WithFile(path),
		config.WithWatcher(!app.opts.NoWatch),
		config.WithErrorHandler(func(err error) {
			app.Logger().WithComponent("config").Warn("reload failed: %v", err)
		}),
	}
	configOpts = append(configOpts, app.opts.ConfigOptions...)
	app.config = config.New(configOpts...)
	loadErr := app.config.Load(context.Background())
	app.applyOverrides()

	// 2. Logger
	if err := app.initLogger(); err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	if loadErr != nil {
		// Config errors are non-fatal; defaults stay in effect
		app.logger.WithComponent("config").Warn("load failed: %v", loadErr)
	}

	// 3. Session
	canvasCfg := app.config.Canvas()
	palette, err := app.config.Palette()
	if err != nil {
		app.logger.WithComponent("config").Warn("palette: %v", err)
	}
	app.session, err = NewSession(canvasCfg.Width, canvasCfg.Height, palette.Colors, app.logger)
	if err != nil {
		return &InitError{Component: "session", Err: err}
	}
	app.logger.Info("session %s started with %dx%d canvas", app.session.ID(), canvasCfg.Width, canvasCfg.Height)

	app.config.OnReload(app.notifyReload)

	// 4. Startup script
	if app.opts.Script != "" {
		if err := app.RunScript(context.Background(), app.opts.Script); err != nil {
			return err
		}
	}

	return nil
}

// applyOverrides records command-line options in the config override layer.
func (app *Application) applyOverrides() {
	if app.opts.Width > 0 {
		_ = app.config.Set("canvas.width", int64(app.opts.Width))
	}
	if app.opts.Height > 0 {
		_ = app.config.Set("canvas.height", int64(app.opts.Height))
	}
	if app.opts.LogLevel != "" {
		_ = app.config.Set("logging.level", app.opts.LogLevel)
	}
	if app.opts.LogFile != "" {
		_ = app.config.Set("logging.file", app.opts.LogFile)
	}
}

func (app *Application) initLogger() error {
	cfg := app.config.Logging()
	out := app.opts.LogOutput
	if out == nil {
		out = os.Stderr
		if app.opts.Interactive {
			out = io.Discard
		}
		if cfg.File != "" {
			f, err := OpenLogFile(cfg.File)
			if err != nil {
				return err
			}
			app.logFile = f
			out = f
		}
	}

	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Level),
		Output: out,
		Prefix: "pixed",
	})
	return nil
}

// RunScript runs a Lua paint script against the session.
func (app *Application) RunScript(ctx context.Context, path string) error {
	if app.session == nil {
		return NewOperationError("script", path, ErrNoSession)
	}
	log := app.logger.WithComponent("script")
	err := lua.RunFile(ctx, app.session.History(), path, lua.WithPrinter(log))
	if err != nil {
		return NewOperationError("script", path, err)
	}
	log.Info("ran %s, history at %d/%d", path, app.session.History().Cursor()+1, app.session.History().Len())
	return nil
}

// notifyReload is called from the config watcher goroutine.
func (app *Application) notifyReload() {
	select {
	case app.reloads <- struct{}{}:
	default:
	}
}

// applyConfig refreshes settings that can change while running.
func (app *Application) applyConfig() {
	palette, err := app.config.Palette()
	if err != nil {
		app.logger.WithComponent("config").Warn("palette: %v", err)
	} else {
		app.session.SetPalette(palette.Colors)
	}
	if app.renderer != nil {
		app.renderer.SetCellWidth(app.config.Canvas().CellWidth)
	}
	app.logger.WithComponent("config").Info("configuration reloaded")
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until the user quits (ErrQuit) or Shutdown is called (nil).
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	opts := renderer.DefaultOptions()
	opts.CellWidth = app.config.Canvas().CellWidth
	app.renderer = renderer.New(b, opts)

	events := make(chan backend.Event)
	go app.pollEvents(b, events)
	defer func() {
		app.stop()
		// Wake the poller so it can observe done
		b.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}()

	return app.eventLoop(events)
}

// pollEvents feeds backend events to the event loop until done.
func (app *Application) pollEvents(b backend.Backend, events chan<- backend.Event) {
	for {
		ev := b.PollEvent()
		select {
		case events <- ev:
		case <-app.done:
			return
		}
	}
}

// eventLoop is the main application loop.
func (app *Application) eventLoop(events <-chan backend.Event) error {
	app.render()

	for {
		select {
		case <-app.done:
			return nil

		case <-app.reloads:
			app.applyConfig()
			app.render()

		case ev := <-events:
			if err := app.handleBackendEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.logger.Info("quit")
				}
				return err
			}
			app.render()
		}
	}
}

// render draws the current session.
func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	x, y := app.session.Cursor()
	app.renderer.Render(renderer.View{
		Canvas:     app.session.Canvas(),
		CursorX:    x,
		CursorY:    y,
		ShowCursor: true,
		Status:     app.session.Status(),
	})
}

// stop ends the event loop.
func (app *Application) stop() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
}

// Shutdown stops the event loop and releases resources.
// Safe to call more than once.
func (app *Application) Shutdown() {
	app.stop()
	if app.config != nil {
		app.config.Close()
	}
	app.closeLog()
}

func (app *Application) closeLog() {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Session returns the editing session.
func (app *Application) Session() *Session {
	return app.session
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return NullLogger
	}
	return app.logger
}
