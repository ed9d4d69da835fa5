package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/config"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/storage"
	"github.com/spf13/cobra"
)

var (
	importDryRun bool
	importSQLite string

	listMuscle        string
	listEquipment     []string
	listMaxComplexity int
	listAll           bool
	listFormat        string

	historyLimit int
)

// catalogCmd is the parent for catalog maintenance
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and import the exercise catalog",
}

// catalogImportCmd loads catalog files into a writable store
var catalogImportCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Import YAML, JSON or CSV catalog files into SQLite or Postgres",
	Long: `Import catalog files into a writable catalog. The target is --sqlite
when given, otherwise the catalog configured by --config (sqlite or
postgres). Postgres imports are recorded in the import_logs table.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

// catalogListCmd prints catalog exercises
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog exercises matching a filter",
	RunE:  runCatalogList,
}

// catalogHistoryCmd prints recorded postgres imports
var catalogHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent catalog imports recorded in Postgres",
	RunE:  runCatalogHistory,
}

func init() {
	catalogImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report counts without writing")
	catalogImportCmd.Flags().StringVar(&importSQLite, "sqlite", "", "SQLite database file to import into")

	catalogListCmd.Flags().StringVarP(&listMuscle, "muscle", "m", "", "Primary muscle")
	catalogListCmd.Flags().StringSliceVarP(&listEquipment, "equipment", "e", nil, "Equipment categories")
	catalogListCmd.Flags().IntVar(&listMaxComplexity, "max-complexity", models.ComplexityMax, "Highest complexity tier")
	catalogListCmd.Flags().BoolVar(&listAll, "all", false, "Include exercises not eligible for program generation")
	catalogListCmd.Flags().StringVarP(&listFormat, "format", "f", "json", "Output format: json or csv")

	catalogHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogHistoryCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if importDryRun {
		logger.Info("DRY RUN mode: nothing will be written")
	}

	if importSQLite != "" {
		return importIntoSQLite(ctx, importSQLite, args[0])
	}

	if configPath == "" {
		return fmt.Errorf("catalog import needs --sqlite or --config")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	switch cfg.Catalog.Driver {
	case config.CatalogSQLite:
		return importIntoSQLite(ctx, cfg.Catalog.Path, args[0])
	case config.CatalogPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			return err
		}
		db, err := storage.New(ctx, dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		return importInto(ctx, db, db, args[0])
	}
	return fmt.Errorf("catalog driver %q is read-only; import into sqlite or postgres", cfg.Catalog.Driver)
}

func importIntoSQLite(ctx context.Context, dbPath, path string) error {
	st, err := catalog.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := importInto(ctx, st, nil, path); err != nil {
		return err
	}
	n, err := st.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s now holds %d exercises\n", dbPath, n)
	return nil
}

// importInto runs the importer against w. When db is set the run is
// recorded in import_logs.
func importInto(ctx context.Context, w catalog.Writer, db *storage.DB, path string) error {
	start := time.Now()
	var logID int64
	if db != nil && !importDryRun {
		id, err := db.InsertImportLog(ctx, storage.ImportLog{Source: path, Status: "running"})
		if err != nil {
			logger.Warn("failed to record import start", "error", err)
		}
		logID = id
	}

	stats, importErr := catalog.NewImporter(w, logger, importDryRun).Import(ctx, path)
	printStats(os.Stderr, stats)

	if logID != 0 {
		ms := int(time.Since(start).Milliseconds())
		entry := storage.ImportLog{
			Status:           "success",
			FilesProcessed:   stats.FilesProcessed,
			FilesErrored:     stats.FilesErrored,
			ExercisesParsed:  stats.ExercisesParsed,
			ExercisesWritten: stats.ExercisesWritten,
			DurationMs:       &ms,
		}
		if importErr != nil {
			msg := importErr.Error()
			entry.Status = "error"
			entry.ErrorMessage = &msg
		}
		if err := db.UpdateImportLog(ctx, logID, entry); err != nil {
			logger.Warn("failed to record import result", "error", err)
		}
	}
	return importErr
}

func printStats(w io.Writer, stats *catalog.ImportStats) {
	fmt.Fprintf(w, "files: %d processed, %d skipped, %d errored\n",
		stats.FilesProcessed, stats.FilesSkipped, stats.FilesErrored)
	fmt.Fprintf(w, "exercises: %d parsed, %d duplicated, %d written\n",
		stats.ExercisesParsed, stats.ExercisesDuplicated, stats.ExercisesWritten)
	for _, e := range stats.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	f := models.Filter{MaxComplexity: listMaxComplexity, OnlyIncluded: !listAll}
	if listMuscle != "" {
		m, err := models.ParseMuscle(listMuscle)
		if err != nil {
			return err
		}
		f.PrimaryMuscle = m
	}
	for _, tok := range listEquipment {
		e, err := models.ParseEquipment(tok)
		if err != nil {
			return err
		}
		f.EquipmentCategories = append(f.EquipmentCategories, e)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	exercises, err := b.store.Query(ctx, f)
	if err != nil {
		return err
	}

	switch listFormat {
	case "csv":
		return catalog.WriteCSV(cmd.OutOrStdout(), exercises)
	case "json":
		if exercises == nil {
			exercises = []models.Exercise{}
		}
		return writeJSON(cmd.OutOrStdout(), exercises)
	}
	return fmt.Errorf("unknown format %q", listFormat)
}

func runCatalogHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()
	if b.db == nil {
		return fmt.Errorf("import history needs a --config with the postgres catalog driver")
	}

	logs, err := b.db.ListImportLogs(ctx, historyLimit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tFILES\tWRITTEN\tSOURCE")
	for _, l := range logs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d/%d\t%d\t%s\n", l.ID, l.CreatedAt.Format(time.RFC3339), l.Status,
			l.FilesProcessed, l.FilesProcessed+l.FilesErrored, l.ExercisesWritten, l.Source)
	}
	return tw.Flush()
}
