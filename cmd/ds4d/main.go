package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	ds4 "github.com/Chiwilly/pyPS4Controller2.0"
)

const version = "2.0.0"

func printVersion() {
	fmt.Printf("ds4d v%s\n", version)
	fmt.Println("DualShock 4 state daemon for the Linux joystick interface")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  ds4d [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Daemon that reads a PS4 controller through the Linux joystick")
	fmt.Println("  interface (/dev/input/jsN), maintains a live state snapshot and an")
	fmt.Println("  input history, and serves both over a state WebSocket and a Unix")
	fmt.Println("  socket IPC interface (see ds4ctl).")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        YAML config file; flags override its values")
	fmt.Println()
	fmt.Println("  -device string")
	fmt.Printf("        Joystick device node (default %q)\n", ds4.DefaultDevice)
	fmt.Println()
	fmt.Println("  -layout string")
	fmt.Printf("        Wire record layout in struct-format notation (default %q)\n", ds4.DefaultLayoutFormat)
	fmt.Println()
	fmt.Println("  -wait-timeout int")
	fmt.Printf("        Liveness attempts before giving up on the device (default %d)\n", ds4.DefaultWaitTimeout)
	fmt.Println()
	fmt.Println("  -wait-interval-ms int")
	fmt.Println("        Pause between liveness attempts in ms (default 1000)")
	fmt.Println()
	fmt.Println("  -listen string")
	fmt.Println("        State WebSocket listen address (default \"127.0.0.1:8808\")")
	fmt.Println()
	fmt.Println("  -ws-path string")
	fmt.Println("        State WebSocket HTTP path (default \"/ws/state\")")
	fmt.Println()
	fmt.Println("  -ipc-socket string")
	fmt.Println("        Unix domain socket path for IPC (default \"/tmp/ds4d.sock\")")
	fmt.Println()
	fmt.Println("  -debug")
	fmt.Println("        Log every decoded record (very chatty)")
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start with defaults, pad on js0")
	fmt.Println("  ds4d")
	fmt.Println()
	fmt.Println("  # Second pad, state WS on all interfaces")
	fmt.Println("  ds4d -device /dev/input/js1 -listen 0.0.0.0:8808")
	fmt.Println()
	fmt.Println("  # Config file with an ad-hoc override")
	fmt.Println("  ds4d -config /etc/ds4d.yaml -log-level debug")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - Requires read access to the joystick device (run as root or add")
	fmt.Println("    user to the 'input' group)")
	fmt.Println("  - The daemon waits for the device to appear, so it can start before")
	fmt.Println("    the pad is paired")
	fmt.Println("  - Unclean exits of the pad (battery, range) end the daemon; run it")
	fmt.Println("    under a supervisor that restarts it")
	fmt.Println()
}

func main() {
	// Check for version/help flags early
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
		if arg == "-help" || arg == "--help" || arg == "-h" {
			printUsage()
			return
		}
	}

	var (
		configPath     = flag.String("config", "", "YAML config file; flags override its values")
		devicePath     = flag.String("device", ds4.DefaultDevice, "Joystick device node")
		layoutFormat   = flag.String("layout", ds4.DefaultLayoutFormat, "Wire record layout in struct-format notation")
		waitTimeout    = flag.Int("wait-timeout", ds4.DefaultWaitTimeout, "Liveness attempts before giving up on the device")
		waitIntervalMS = flag.Int("wait-interval-ms", 1000, "Pause between liveness attempts in milliseconds")
		listenAddr     = flag.String("listen", "127.0.0.1:8808", "State WebSocket listen address")
		wsPath         = flag.String("ws-path", "/ws/state", "State WebSocket HTTP path")
		ipcSocketPath  = flag.String("ipc-socket", "/tmp/ds4d.sock", "Unix domain socket path for IPC")
		debug          = flag.Bool("debug", false, "Log every decoded record")
		logLevelStr    = flag.String("log-level", "info", "Log level: error, warn, info, debug")
		showVersion    = flag.Bool("version", false, "Print version and exit")
		showHelp       = flag.Bool("help", false, "Print help message")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		printVersion()
		return
	}

	// Config file first, then flag overrides on top. Only flags actually
	// set on the command line override the file.
	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	var overrides FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			overrides.DevicePath = devicePath
		case "layout":
			overrides.Layout = layoutFormat
		case "wait-timeout":
			overrides.WaitTimeout = waitTimeout
		case "wait-interval-ms":
			overrides.WaitIntervalMS = waitIntervalMS
		case "listen":
			overrides.ListenAddr = listenAddr
		case "ws-path":
			overrides.WSPath = wsPath
		case "ipc-socket":
			overrides.IPCSocketPath = ipcSocketPath
		case "debug":
			overrides.Debug = debug
		case "log-level":
			overrides.LogLevel = logLevelStr
		}
	})
	overrides.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logLevel, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger := setupLogger(logLevel, cfg.Device.Debug)

	ctrl, err := ds4.New(cfg.ToControllerConfig(logger))
	if err != nil {
		logger.Error("invalid controller configuration", "error", err)
		os.Exit(1)
	}

	// Root context cancels on SIGINT/SIGTERM; it bounds the device wait and
	// supervises everything after it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	logger.Info("starting ds4d", "version", version,
		"device", cfg.Device.Path,
		"layout", cfg.Device.Layout,
		"listen", cfg.StateWS.ListenAddr,
		"ws_path", cfg.StateWS.Path,
		"ipc_socket", cfg.IPC.SocketPath)

	if err := ctrl.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted while waiting for device")
			return
		}
		logger.Error("controller start failed", "error", err)
		os.Exit(1)
	}
	startedAt := time.Now()

	server := NewServer(logger, ctrl, ServerConfig{Hub: HubConfig{
		SendBuf:      cfg.StateWS.SendBuf,
		BroadcastBuf: cfg.StateWS.BroadcastBuf,
	}})
	mux := http.NewServeMux()
	server.Register(mux, cfg.StateWS.Path)
	httpSrv := &http.Server{Addr: cfg.StateWS.ListenAddr, Handler: mux}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		server.Hub().Run(gctx)
		return nil
	})

	g.Go(func() error {
		runStateBroadcaster(gctx, server.Hub(), ctrl, logger)
		return nil
	})

	g.Go(func() error {
		ipcSocket := ExpandPath(cfg.IPC.SocketPath)
		return runIPCServer(gctx, ipcSocket, ctrl, cfg.Device.Path, startedAt, logger)
	})

	g.Go(func() error {
		logger.Info("state ws listening", "addr", cfg.StateWS.ListenAddr, "path", cfg.StateWS.Path)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("state ws server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutCancel()
		return httpSrv.Shutdown(shutCtx)
	})

	// The daemon's lifetime is the pipeline's: a pad that goes away takes
	// the daemon down so a supervisor can cycle it.
	g.Go(func() error {
		select {
		case <-ctrl.Done():
			logger.Info("controller pipeline finished")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	err = g.Wait()
	ctrl.Stop()
	if err != nil {
		logger.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
