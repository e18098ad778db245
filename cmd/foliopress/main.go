package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/foliopress/internal/build"
	"git.home.luguber.info/inful/foliopress/internal/config"
	"git.home.luguber.info/inful/foliopress/internal/content"
	"git.home.luguber.info/inful/foliopress/internal/devlog"
	"git.home.luguber.info/inful/foliopress/internal/preview"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"foliopress.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Output directory for emitted data files (overrides config)"`
	} `cmd:"" help:"Run the content pipeline and emit the static data files"`

	Discover struct {
		Collection string `short:"k" help:"Collection to discover (blogs or projects)" default:"blogs"`
	} `cmd:"" help:"List discovered content items without writing output"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	NewLog struct {
		Date string `short:"d" help:"Day to create logs for (YYYY-MM-DD, default today)"`
	} `cmd:"" name:"new-log" help:"Create today's devlog templates"`

	Preview struct {
	} `cmd:"" help:"Serve the site locally and rebuild on content changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Local overrides only; absence is not an error.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		cfg := loadConfig()
		if CLI.Build.Output != "" {
			cfg.Content.OutputDir = CLI.Build.Output
		}
		if _, err := build.Run(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "discover":
		cfg := loadConfig()
		if err := runDiscover(cfg, CLI.Discover.Collection); err != nil {
			slog.Error("Discover failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.WriteStarter(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	case "new-log":
		cfg := loadConfig()
		if err := runNewLog(cfg, CLI.NewLog.Date); err != nil {
			slog.Error("New-log failed", "error", err)
			os.Exit(1)
		}
	case "preview":
		cfg := loadConfig()
		if err := runPreview(cfg); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func runDiscover(cfg *config.Config, collection string) error {
	kind := content.Kind(collection)
	if !kind.IsValid() {
		return content.ErrInvalidKind
	}

	items, err := build.Discover(cfg, kind)
	if err != nil {
		return err
	}

	slog.Info("Discovery completed", "collection", kind.Collection(), "items", len(items))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func runNewLog(cfg *config.Config, date string) error {
	day := time.Now()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return err
		}
		day = parsed
	}

	created, err := devlog.Create(cfg.Content.DevlogsDir, day)
	if err != nil {
		return err
	}
	for _, path := range created {
		slog.Info("Devlog created", "path", path)
	}
	if len(created) == 0 {
		slog.Info("Devlogs already exist for day", "day", day.Format("2006-01-02"))
	}
	return nil
}

func runPreview(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return preview.NewServer(cfg).Run(ctx)
}
