// Package main is the handsign CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/handsign/internal/config"
	"github.com/ayusman/handsign/internal/landmark"
	"github.com/ayusman/handsign/internal/logging"
	"github.com/ayusman/handsign/internal/model"
	"github.com/ayusman/handsign/internal/server"
	"github.com/ayusman/handsign/internal/store"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "serve", "server":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = runServe(ctx, args)
		stop()
	case "evaluate":
		err = runEvaluate(args, os.Stdout)
	case "import":
		err = runImport(args, os.Stdout)
	case "export":
		err = runExport(args, os.Stdout)
	case "version", "--version", "-v":
		fmt.Printf("handsign version %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `handsign - static hand gesture recognition over websockets

Usage:
  handsign serve    [-config PATH] [-addr HOST:PORT] [-model PATH] [-db PATH] [-debug]
  handsign evaluate [-config PATH] [-model PATH] (-data DIR | -db PATH)
  handsign import   -data DIR -db PATH [-replace]
  handsign export   -db PATH -out DIR
  handsign version
  handsign help
`)
}

// serveOptions are the serve flags that override the config file.
type serveOptions struct {
	configPath string
	addr       string
	modelPath  string
	dbPath     string
	debug      bool
}

func parseServeFlags(args []string) (serveOptions, error) {
	var opts serveOptions
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "config file path")
	fs.StringVar(&opts.addr, "addr", "", "listen address, overrides server.host and server.port")
	fs.StringVar(&opts.modelPath, "model", "", "classifier artifact, overrides model.path")
	fs.StringVar(&opts.dbPath, "db", "", "sqlite database for session audit, overrides storage.database_path")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(path, modelPath, dbPath string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	}
	return cfg, nil
}

func modelOptions(cfg *config.Config) model.Options {
	return model.Options{
		ONNX: model.ONNXOptions{
			LibraryPath: cfg.Model.ONNX.LibraryPath,
			InputName:   cfg.Model.ONNX.InputName,
			OutputName:  cfg.Model.ONNX.OutputName,
			Features:    landmark.NumFeatures,
			Labels:      cfg.Model.ONNX.Labels,
		},
	}
}

// loadRegistry loads the artifact at cfg.Model.Path. A missing artifact leaves
// the registry unloaded and is only logged; a corrupt one is an error.
func loadRegistry(cfg *config.Config, logger *zap.Logger) (*model.Registry, error) {
	reg := model.NewRegistry()
	err := reg.LoadFile(cfg.Model.Path, modelOptions(cfg))
	switch {
	case err == nil:
		logger.Info("model loaded", zap.String("path", cfg.Model.Path))
	case errors.Is(err, model.ErrArtifactNotFound):
		logger.Warn("model artifact not found; predictions will fail until restart", zap.String("path", cfg.Model.Path))
	default:
		return nil, fmt.Errorf("failed to load model %s: %w", cfg.Model.Path, err)
	}
	return reg, nil
}

func runServe(ctx context.Context, args []string) error {
	opts, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configPath, opts.modelPath, opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || opts.debug
	logger, err := logging.New(debugMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	reg, err := loadRegistry(cfg, logger)
	if err != nil {
		return err
	}
	defer reg.Close()

	var st *store.Store
	if cfg.Storage.DatabasePath != "" {
		st, err = store.New(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()
		logger.Info("session audit enabled", zap.String("database", cfg.Storage.DatabasePath))
	}

	srv := server.New(server.Config{
		Registry:        reg,
		Store:           st,
		Logger:          logger,
		Normalize:       cfg.Model.Normalize(),
		MaxMessageBytes: cfg.Server.MaxMessageBytes,
		WriteWait:       cfg.Server.WriteWait,
		PongWait:        cfg.Server.PongWait,
		PingInterval:    cfg.Server.PingInterval,
	})

	addr := cfg.Server.Addr()
	if opts.addr != "" {
		addr = opts.addr
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	return <-errCh
}
