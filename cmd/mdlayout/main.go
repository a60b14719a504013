package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdlayout/internal/config"
	"git.home.luguber.info/inful/mdlayout/internal/pipeline"
	"git.home.luguber.info/inful/mdlayout/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"mdlayout.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Apply struct {
		Paths []string `arg:"" optional:"" help:"Content roots to process (overrides configuration)"`
	} `cmd:"" help:"Inject the default layout into markdown frontmatter"`

	Check struct {
		Paths []string `arg:"" optional:"" help:"Content roots to check (overrides configuration)"`
	} `cmd:"" help:"Report files that would change, without rewriting anything"`

	Watch struct {
		Paths    []string      `arg:"" optional:"" help:"Content roots to watch (overrides configuration)"`
		Debounce time.Duration `help:"Delay before re-running after a change" default:"500ms"`
	} `cmd:"" help:"Watch content roots and re-apply the transform on changes"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch kctx.Command() {
	case "apply", "apply <paths>":
		result, err := runPipeline(context.Background(), cfg, CLI.Apply.Paths, false)
		if err != nil {
			slog.Error("Apply failed", "error", err)
			os.Exit(1)
		}
		report(result, false)
		if result.Failed() {
			os.Exit(1)
		}

	case "check", "check <paths>":
		result, err := runPipeline(context.Background(), cfg, CLI.Check.Paths, true)
		if err != nil {
			slog.Error("Check failed", "error", err)
			os.Exit(1)
		}
		report(result, true)
		if result.Failed() || result.Changed() > 0 {
			os.Exit(1)
		}

	case "watch", "watch <paths>":
		if err := runWatch(cfg, CLI.Watch.Paths, CLI.Watch.Debounce); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	}
}

func pipelineOptions(cfg *config.Config, paths []string, dryRun bool) pipeline.Options {
	roots := cfg.ContentRoots
	if len(paths) > 0 {
		roots = paths
	}
	return pipeline.Options{
		Roots:   roots,
		Layout:  cfg.LayoutOptions(),
		Workers: cfg.Workers,
		DryRun:  dryRun,
	}
}

func runPipeline(ctx context.Context, cfg *config.Config, paths []string, dryRun bool) (*pipeline.Result, error) {
	return pipeline.Run(ctx, pipelineOptions(cfg, paths, dryRun), slog.Default())
}

func report(result *pipeline.Result, dryRun bool) {
	slog.Info("Run complete",
		"processed", result.Processed,
		"changed", result.Changed(),
		"failed", len(result.Errors),
		"dry_run", dryRun,
	)
	for _, fe := range result.Errors {
		slog.Error("Document needs attention", "path", fe.Path, "error", fe.Err)
	}
}

func runWatch(cfg *config.Config, paths []string, debounce time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down")
		cancel()
	}()

	opts := pipelineOptions(cfg, paths, false)

	// One full pass up front so the tree is conformant before watching.
	result, err := pipeline.Run(ctx, opts, slog.Default())
	if err != nil {
		return err
	}
	report(result, false)

	w := watch.New(opts.Roots, debounce, func(ctx context.Context) {
		result, err := pipeline.Run(ctx, opts, slog.Default())
		if err != nil {
			slog.Error("Pipeline run failed", "error", err)
			return
		}
		report(result, false)
	})

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
