// Package main is the entry point for the pixed pixel editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/pixed/internal/app"
	"github.com/dshills/pixed/internal/export"
	"github.com/dshills/pixed/internal/renderer/backend"
	"github.com/dshills/pixed/internal/server"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds flags that select a mode rather than configure the app.
type cliOptions struct {
	app       app.Options
	export    string
	cellSize  int
	serve     string
	server    bool
	advertise bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	switch {
	case opts.export != "":
		return runExport(opts)
	case opts.serve != "" || opts.server:
		return runServer(opts)
	default:
		return runEditor(opts)
	}
}

// runEditor starts the terminal editor.
func runEditor(opts cliOptions) int {
	opts.app.Interactive = true
	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// runExport runs the startup script, if any, and writes the canvas to a file.
func runExport(opts cliOptions) int {
	opts.app.NoWatch = true
	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	cfg := application.Config().Export()
	exportOpts := export.DefaultOptions()
	exportOpts.CellSize = cfg.CellSize
	exportOpts.Transparent = cfg.Transparent
	if opts.cellSize > 0 {
		exportOpts.CellSize = opts.cellSize
	}

	c := application.Session().Canvas()
	if err := export.WriteFile(opts.export, c, exportOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", app.NewOperationError("export", opts.export, err))
		return 1
	}
	application.Logger().Info("exported %dx%d canvas to %s", c.Width(), c.Height(), opts.export)
	return 0
}

// runServer serves canvas sessions over websockets until interrupted.
func runServer(opts cliOptions) int {
	opts.app.NoWatch = true
	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	log := application.Logger().WithComponent("server")
	canvasCfg := application.Config().Canvas()
	serverCfg := application.Config().Server()

	srv := server.New(
		server.WithSize(canvasCfg.Width, canvasCfg.Height),
		server.WithMaxFrame(serverCfg.MaxFrame),
		server.WithMaxCells(serverCfg.MaxCells),
		server.WithLogger(log),
	)

	addr := opts.serve
	if addr == "" {
		addr = serverCfg.Listen
	}
	if addr == "" {
		fmt.Fprintf(os.Stderr, "Error: no listen address; pass -serve or set server.listen\n")
		return 1
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.advertise || serverCfg.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		adv, err := server.Advertise("", port)
		if err != nil {
			// Discovery is optional
			log.Warn("mdns: %v", err)
		} else {
			defer adv.Close()
			log.Info("advertising %s on port %d", server.ServiceType, port)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx, ln); err != nil && !errors.Is(err, server.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.IntVar(&opts.app.Width, "width", 0, "Canvas width (default from config, 40)")
	flag.IntVar(&opts.app.Height, "height", 0, "Canvas height (default from config, 40)")
	flag.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.app.LogFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&opts.app.Script, "script", "", "Lua paint script to run at startup")
	flag.StringVar(&opts.app.Script, "s", "", "Lua paint script to run at startup (shorthand)")
	flag.StringVar(&opts.export, "export", "", "Export the canvas to a .png, .jpg or .pdf file and exit")
	flag.StringVar(&opts.export, "o", "", "Export the canvas and exit (shorthand)")
	flag.IntVar(&opts.cellSize, "cell-size", 0, "Exported size of one pixel (default from config, 30)")
	flag.StringVar(&opts.serve, "serve", "", "Serve websocket sessions on this address (e.g. :8080)")
	flag.BoolVar(&opts.server, "server", false, "Serve websocket sessions on the configured server.listen address")
	flag.BoolVar(&opts.advertise, "advertise", false, "Announce the server over mDNS")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pixed - terminal pixel editor with undo history\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pixed [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows/hjkl move   space/enter paint   x erase   1-9 brush   e eraser\n")
		fmt.Fprintf(os.Stderr, "  u/ctrl-z undo      r/ctrl-y redo       c clear   q/esc quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pixed                          Edit a 40x40 canvas\n")
		fmt.Fprintf(os.Stderr, "  pixed -width 16 -height 16     Edit a 16x16 canvas\n")
		fmt.Fprintf(os.Stderr, "  pixed -s art.lua -o art.png    Run a script and export\n")
		fmt.Fprintf(os.Stderr, "  pixed -serve :8080 -advertise  Serve over websockets\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("pixed %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.app.LogLevel != "" && !app.ValidLogLevel(opts.app.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.app.LogLevel)
		os.Exit(1)
	}
	if opts.app.Width < 0 || opts.app.Height < 0 {
		fmt.Fprintf(os.Stderr, "Error: canvas size must be positive\n")
		os.Exit(1)
	}
	if opts.export != "" {
		if _, err := export.FormatForPath(opts.export); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	return opts
}
