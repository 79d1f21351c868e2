// Command ocrserver runs the image-to-text extraction service.
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

	"github.com/joho/godotenv"

	"github.com/wudi/ocrkit/config"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr/tesseract"
	"github.com/wudi/ocrkit/server"
)

type options struct {
	envFile  string
	addr     string
	language string
	timeout  time.Duration
	binarize bool
	logLevel string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocrserver: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "ocrserver: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ocrserver [flags]\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.envFile, "env", "", "Optional .env file with OCRKIT_* variables")
	flag.StringVar(&opts.addr, "addr", "", "Listen address (overrides OCRKIT_ADDR)")
	flag.StringVar(&opts.language, "lang", "", "Recognition language (overrides OCRKIT_LANGUAGE)")
	flag.DurationVar(&opts.timeout, "timeout", 0, "Per-request recognition budget (overrides OCRKIT_TIMEOUT_MS)")
	flag.BoolVar(&opts.binarize, "binarize", false, "Enable binarization preprocessing (overrides OCRKIT_BINARIZE)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		return options{}, fmt.Errorf("unexpected arguments: %v", flag.Args())
	}
	return opts, nil
}

func run(opts options) error {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	} else {
		// Best effort: a .env in the working directory is optional.
		_ = godotenv.Load()
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := observability.NewZapLogger(cfg.LogLevel)

	engine := tesseract.NewEngine()
	srv, err := server.New(cfg, engine, log)
	if err != nil {
		return err
	}
	defer srv.Close()

	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 30*time.Second)
	err = engine.Probe(probeCtx, cfg.Language)
	cancelProbe()
	if err != nil {
		// Without a working engine every request would fail; refuse to start.
		return fmt.Errorf("engine probe: %w", err)
	}
	srv.SetReady(true)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			observability.String("addr", cfg.Addr),
			observability.String("language", cfg.Language),
		)
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Info("shutting down", observability.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(ctx)
	}
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.language != "" {
		cfg.Language = opts.language
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.binarize {
		cfg.Binarize = true
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
}
