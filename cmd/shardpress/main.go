package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/shardpress/internal/build"
	"git.home.luguber.info/inful/shardpress/internal/config"
	"git.home.luguber.info/inful/shardpress/internal/history"
	"git.home.luguber.info/inful/shardpress/internal/logfields"
	"git.home.luguber.info/inful/shardpress/internal/metrics"
	"git.home.luguber.info/inful/shardpress/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"shardpress.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build struct {
		Output      string `short:"o" help:"Output directory (overrides configuration)"`
		MetricsFile string `help:"Write Prometheus metrics to this file after the build"`
	} `cmd:"" help:"Compile the source tree into the published artifact set"`

	Validate struct {
		Strict bool `help:"Exit non-zero when any source is rejected"`
	} `cmd:"" help:"Run the pipeline without writing any output"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	History struct {
		Limit int           `short:"n" help:"Number of recent builds to show" default:"20"`
		Since time.Duration `help:"Show builds started within this window (overrides --limit)"`
	} `cmd:"" help:"Show recent build history"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Vars{"version": version.String()})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch kctx.Command() {
	case "build":
		cfg := loadConfigOrExit()
		if _, err := runBuild(cfg, CLI.Build.Output, CLI.Build.MetricsFile, false); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "validate":
		cfg := loadConfigOrExit()
		if err := runValidate(cfg, CLI.Validate.Strict); err != nil {
			slog.Error("Validation failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
	case "history":
		cfg := loadConfigOrExit()
		if err := runHistory(cfg, CLI.History.Limit, CLI.History.Since); err != nil {
			slog.Error("History failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

func loadConfigOrExit() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Path(CLI.Config), logfields.Error(err))
		os.Exit(1)
	}
	return cfg
}

// runBuild executes the pipeline. In dry-run mode the output directory is
// never touched, which is what the validate command runs on. A build that
// finishes with warnings (rejected sources) returns a nil error; only an
// aborted build is an error.
func runBuild(cfg *config.Config, outputOverride, metricsFile string, dryRun bool) (*build.BuildReport, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outputDir := cfg.Output
	if outputOverride != "" {
		outputDir = outputOverride
	}

	b := build.NewBuilder(cfg, outputDir).SetDryRun(dryRun)

	var reg *prometheus.Registry
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		b.SetRecorder(metrics.NewPrometheusRecorder(reg))
	}

	if store := openHistory(cfg); store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close history store", logfields.Error(err))
			}
		}()
		b.SetHistory(store)
	}

	report, err := b.Build(ctx)

	if reg != nil {
		if werr := metrics.WriteTextfile(reg, metricsFile); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(metricsFile), logfields.Error(werr))
		}
	}

	fmt.Println(report.Summary())
	return report, err
}

// runValidate runs a dry-run build. In strict mode any rejected source fails
// the command, which is what CI hooks want.
func runValidate(cfg *config.Config, strict bool) error {
	report, err := runBuild(cfg, "", "", true)
	if err != nil {
		return err
	}
	if strict && report.Rejected > 0 {
		return fmt.Errorf("strict validation: %d source(s) rejected", report.Rejected)
	}
	return nil
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", logfields.Path(configPath), slog.Bool("force", force))
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", configPath)
	return nil
}

func runHistory(cfg *config.Config, limit int, since time.Duration) error {
	if cfg.History.Path == "" {
		return fmt.Errorf("history is not configured: set history.path in the configuration file")
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}()

	ctx := context.Background()
	var events []history.Event
	if since > 0 {
		now := time.Now()
		events, err = store.GetRange(ctx, now.Add(-since), now)
	} else {
		// A build is a handful of events; over-fetch and trim after folding.
		events, err = store.Recent(ctx, limit*8)
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	summaries := history.Summarize(events)
	if since <= 0 && limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	if len(summaries) == 0 {
		fmt.Println("No builds recorded")
		return nil
	}
	printSummaries(summaries)
	return nil
}

func printSummaries(summaries []history.BuildSummary) {
	fmt.Printf("%-36s  %-19s  %-8s  %6s  %4s  %5s\n", "BUILD", "STARTED", "STATUS", "DOCS", "REJ", "PAGES")
	for _, s := range summaries {
		started := "-"
		if !s.StartedAt.IsZero() {
			started = s.StartedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-36s  %-19s  %-8s  %6d  %4d  %5d\n",
			s.BuildID, started, s.Status, s.Documents, s.Rejected, s.Pages)
	}
}

func openHistory(cfg *config.Config) history.Store {
	if cfg.History.Path == "" {
		return nil
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		slog.Warn("Build history disabled", logfields.Path(cfg.History.Path), logfields.Error(err))
		return nil
	}
	return store
}
