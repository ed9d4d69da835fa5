package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/config"
	"github.com/claude/trainplan/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	// Global flags
	verbose     bool
	configPath  string
	catalogPath string
	timeout     time.Duration

	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "trainplan",
	Short: "trainplan - deterministic resistance-training program generator",
	Long: `trainplan builds 8-week resistance-training programs from a training
profile (experience, days per week, session length, equipment, priority
and excluded muscles) and an exercise catalog.

Without --config or --catalog the bundled exercise catalog is used.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		// stdout carries command output (and the MCP stdio transport).
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Server config file (selects the catalog driver and database)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Exercise catalog file (.yaml, .json or .csv); overrides --config")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(splitsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// backend is the catalog (and, with a postgres config, the database)
// selected by the global flags.
type backend struct {
	store catalog.Store
	db    *storage.DB
	cfg   *config.Config
	close func()
}

// openBackend resolves the catalog: --catalog first, then --config, then
// the bundled seed.
func openBackend(ctx context.Context) (*backend, error) {
	if catalogPath != "" {
		exercises, err := catalog.LoadFile(catalogPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("catalog loaded", "path", catalogPath, "exercises", len(exercises))
		return &backend{store: catalog.NewMemoryStore(exercises), close: func() {}}, nil
	}

	if configPath == "" {
		exercises, err := catalog.DefaultSeed()
		if err != nil {
			return nil, err
		}
		return &backend{store: catalog.NewMemoryStore(exercises), close: func() {}}, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	b := &backend{cfg: cfg, close: func() {}}

	if cfg.Catalog.Driver == config.CatalogPostgres {
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		b.db = db
		b.store = db
		b.close = db.Close
		return b, nil
	}

	store, closeStore, err := catalog.Open(cfg.Catalog, nil)
	if err != nil {
		return nil, err
	}
	b.store = store
	b.close = func() {
		if err := closeStore(); err != nil {
			logger.Warn("closing catalog", "error", err)
		}
	}
	return b, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
