package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/config"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/history"
	"github.com/abdul-hamid-achik/hitreq/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag  string
	verboseFlag int // 0=off, 1=-v, 2=-vv
	outputFlag  string
	noColorFlag bool
	timeoutFlag string
	historyFlag string
)

var rootCmd = &cobra.Command{
	Use:   "hitreq",
	Short: "Declarative HTTP requests from the command line",
	Long: `hitreq executes declared HTTP endpoints through a validating request
pipeline: defaults, parameter validation, URL templating, dispatch on a
bounded worker pool and typed response parsing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the mapped exit code
func Execute(v, bt string) {
	version = v
	buildTime = bt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", getEnvString("HITREQ_CONFIG", ""), "Path to config file (env: HITREQ_CONFIG)")
	pf.CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v shows headers, -vv adds debug logs)")
	pf.StringVarP(&outputFlag, "output", "o", getEnvString("HITREQ_OUTPUT", "console"), "Output format: console, json (env: HITREQ_OUTPUT)")
	pf.BoolVar(&noColorFlag, "no-color", getEnvBool("HITREQ_NO_COLOR", false), "Disable colored output (env: HITREQ_NO_COLOR)")
	pf.StringVar(&timeoutFlag, "timeout", getEnvString("HITREQ_TIMEOUT", ""), "Socket timeout override (e.g., 5s, 1m) (env: HITREQ_TIMEOUT)")
	pf.StringVar(&historyFlag, "history", getEnvString("HITREQ_HISTORY", ""), "SQLite file recording executions (env: HITREQ_HISTORY)")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// session bundles what a command needs to execute requests
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    *engine.Engine
	store     *history.Store
	formatter output.Formatter
}

// loadConfig reads --config or searches the working directory
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFlag != "" {
		cfg, err = config.LoadConfig(configFlag)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		cfg, err = config.FindAndLoadConfig(wd)
	}
	if err != nil {
		return nil, err
	}

	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q", timeoutFlag)
		}
		cfg.SocketTimeout = int(d.Milliseconds())
	}
	if historyFlag != "" {
		cfg.History = historyFlag
	}
	if noColorFlag {
		cfg.NoColor = config.BoolPtr(true)
	}
	return cfg, nil
}

func newLogger(w io.Writer) *slog.Logger {
	if verboseFlag < 2 {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newSession loads configuration and starts an engine. Opening the history
// store is optional per command.
func newSession(cmd *cobra.Command, withEngine bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	s := &session{
		cfg:    cfg,
		logger: newLogger(cmd.ErrOrStderr()),
	}

	s.formatter, err = output.NewFormatter(outputFlag, cmd.OutOrStdout(), verboseFlag > 0, cfg.GetNoColor())
	if err != nil {
		return nil, withExitCode(ExitUsageError, err)
	}

	if cfg.History != "" {
		s.store, err = history.Open(cfg.History)
		if err != nil {
			return nil, withExitCode(ExitConfigError, err)
		}
	}

	if !withEngine {
		return s, nil
	}

	opts := []engine.Option{
		engine.WithConfig(cfg),
		engine.WithLogger(s.logger),
	}
	if s.store != nil {
		opts = append(opts, engine.WithRecorder(s.store))
	}
	s.engine, err = engine.New(opts...)
	if err != nil {
		s.Close()
		return nil, withExitCode(ExitConfigError, err)
	}
	s.logger.Debug("engine started", "history", cfg.History)
	return s, nil
}

func (s *session) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("failed to close history", "error", err)
		}
	}
}
