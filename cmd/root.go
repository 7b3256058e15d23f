package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/config"
	"github.com/zjrosen/stylex/internal/flags"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/paths"
	"github.com/zjrosen/stylex/internal/session"
	"github.com/zjrosen/stylex/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the viewer.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	// cfgPath is the file the configuration came from, or where a
	// default would be written.
	cfgPath string
	// cfgErr is reported by commands that need the configuration.
	cfgErr error
	env    *environment
)

// environment holds what the document commands share.
type environment struct {
	catalogue *catalogue.Catalogue
	flags     *flags.Registry
	manager   *session.Manager
	tracing   *tracing.Provider
	closeLog  func()
}

var rootCmd = &cobra.Command{
	Use:   "stylex",
	Short: "Syntax styling and folding for source files",
	Long: `stylex runs incremental lexers over source files. It prints styled text,
token streams and fold levels, follows files as they change, and previews
them in a terminal viewer with collapsible folds.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .stylex/config.yaml, then ~/.config/stylex/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write a debug log (also STYLEX_DEBUG=1)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"minimum log level: debug, info, warn or error")
}

func key(parts ...string) string {
	k := parts[0]
	for _, p := range parts[1:] {
		k += config.KeyDelimiter + p
	}
	return k
}

func initConfig() {
	v := config.NewViper()
	cfg, cfgPath, cfgErr = config.Defaults(), "", nil

	_ = v.BindPFlag(key("log", "enabled"), rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag(key("log", "level"), rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindEnv(key("log", "enabled"), "STYLEX_DEBUG")

	path, found := paths.ResolveConfigFile(cfgFile)
	cfgPath = path
	if !found {
		if cfgFile != "" {
			cfgErr = fmt.Errorf("config file %s: %w", cfgFile, errConfigNotFound)
			return
		}
		// No config file found anywhere - create default at .stylex/config.yaml
		if err := config.WriteDefaultConfig(path); err == nil {
			found = true
		}
		// If write fails, just continue with defaults (no config file)
	}

	if found {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			cfgErr = fmt.Errorf("reading config: %w", err)
			return
		}
	}
	cfg, cfgErr = config.Load(v)
}

var errConfigNotFound = errors.New("not found")

// setup validates the configuration and builds the catalogue, log, tracer
// and session manager for the command about to run.
func setup(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	registry := cfg.FlagRegistry()
	cat := catalogue.Default(catalogue.WithFlags(registry))
	if err := config.Validate(cfg, cat); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Apply(cat); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	e := &environment{catalogue: cat, flags: registry}
	if cfg.Log.Enabled {
		path := cfg.Log.Path
		if path == "" {
			path = paths.DefaultLogFile()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		var err error
		if cmd.Name() == "view" {
			e.closeLog, err = log.InitWithTeaLog(path, "stylex")
		} else {
			e.closeLog, err = log.Init(path)
		}
		if err != nil {
			return err
		}
		level, _ := log.ParseLevel(cfg.Log.Level)
		log.SetMinLevel(level)
	}

	provider, err := tracing.NewProvider(cfg.TracingConfig())
	if err != nil {
		e.close()
		return fmt.Errorf("starting tracing: %w", err)
	}
	e.tracing = provider
	e.manager = session.NewManager(cat,
		session.WithTracer(provider.Tracer()),
		session.WithFlags(registry),
		session.WithTTL(cfg.Cache.SessionTTL, cfg.Cache.CleanupInterval),
	)
	env = e

	log.Info(log.CatCLI, "Starting", "command", cmd.Name(), "config", cfgPath, "version", version)
	return nil
}

func (e *environment) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if e.manager != nil {
		e.manager.Shutdown(ctx)
	}
	if e.tracing != nil {
		if err := e.tracing.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatCLI, "Tracing shutdown failed", err)
		}
	}
	if e.closeLog != nil {
		e.closeLog()
	}
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if env != nil {
		env.close()
		env = nil
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}
