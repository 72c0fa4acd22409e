package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/cache"
	"github.com/wpgo/wealth-planner/internal/calculation"
	"github.com/wpgo/wealth-planner/internal/config"
	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/internal/history"
	"github.com/wpgo/wealth-planner/internal/output"
	"github.com/wpgo/wealth-planner/internal/storage/memory"
	"github.com/wpgo/wealth-planner/internal/storage/sqlite"
)

var (
	flagDBPath   string
	flagBackend  string
	flagFormat   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "wpgo",
	Short: "Wealth projection and planning CLI",
	Long:  "Project client portfolios month by month, check goal feasibility, generate remediation suggestions, and keep a history of saved simulations.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	settings := config.FromEnv()

	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", settings.DBPath, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "store", "sqlite", "Storage backend (sqlite or memory)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "console", "Output format (console, json, csv, detailed-csv)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", settings.LogLevel, "Log level (debug, info, warn, error)")
}

// planner bundles the wired services every command works against.
type planner struct {
	store    domain.Store
	engine   *calculation.Engine
	history  *history.Service
	logger   *logrus.Logger
	settings config.Settings
}

// newPlanner is the shared wiring path used by all commands: config from the
// environment, a logrus logger, the selected storage backend, and the engine
// with its TTL cache.
func newPlanner() (*planner, error) {
	settings := config.FromEnv()
	logger := newLogger()

	store, err := openStore()
	if err != nil {
		return nil, err
	}

	engine := calculation.NewEngine(store, cache.New(settings.CacheTTL), logger)
	return &planner{
		store:    store,
		engine:   engine,
		history:  history.NewService(store, logger),
		logger:   logger,
		settings: settings,
	}, nil
}

func (p *planner) Close() {
	if err := p.store.Close(); err != nil {
		p.logger.Warnf("closing store: %v", err)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func openStore() (domain.Store, error) {
	switch flagBackend {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlite.Open(flagDBPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use sqlite or memory)", flagBackend)
	}
}

// printReport renders a report to stdout in the selected format.
func printReport(report *output.Report) error {
	return output.GenerateReport(os.Stdout, report, flagFormat)
}
