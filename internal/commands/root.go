package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/EdwinWenink/gnucash-scripts/internal/auditlog"
	"github.com/EdwinWenink/gnucash-scripts/internal/book"
	"github.com/EdwinWenink/gnucash-scripts/internal/buildinfo"
	"github.com/EdwinWenink/gnucash-scripts/internal/config"
	"github.com/EdwinWenink/gnucash-scripts/internal/importer"
	"github.com/EdwinWenink/gnucash-scripts/internal/logger"
	"github.com/EdwinWenink/gnucash-scripts/internal/statement"
)

// configEnvVar can point at a config file when the --config flag is not
// given; a .env in the working directory is honored.
const configEnvVar = "GNUCASH_IMPORT_CONFIG"

// NewRootCommand creates the root CLI command. There are no subcommands: the
// binary does one thing.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "gnucash-import",
		Short:   "Import an ING bank statement into a GnuCash book",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(configPath)
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the config file (default "+config.DefaultFile+")")

	return rootCmd
}

func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(configEnvVar); env != "" {
		return env
	}
	return config.DefaultFile
}

func runImport(configPath string) error {
	_ = godotenv.Load()
	log := logger.New()

	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		return err
	}

	bookPath, err := cfg.BookPath()
	if err != nil {
		return err
	}
	statementPath, err := cfg.StatementPath()
	if err != nil {
		return err
	}

	b, err := book.Open(bookPath, cfg.ReadOnly)
	if err != nil {
		return err
	}
	defer b.Close()
	log.Info().
		Str("book", bookPath).
		Str("currency", b.DefaultCurrency().Mnemonic).
		Bool("read_only", cfg.ReadOnly).
		Msg("book opened")

	f, err := os.Open(statementPath)
	if err != nil {
		return fmt.Errorf("opening bank statement: %w", err)
	}
	defer f.Close()

	r, err := statement.NewReader(f, cfg.Delimiter(), cfg.FieldMapping())
	if err != nil {
		return err
	}

	imp := importer.New(b, log, importer.Options{
		TargetAccount:     cfg.TargetAccount(),
		SkipMalformedRows: cfg.SkipMalformedRows,
	})
	outcomes, runErr := imp.Run(r)

	// Record whatever was decided, even when the run aborted halfway.
	if len(outcomes) > 0 {
		baseDir, dirErr := cfg.BaseDir()
		if dirErr == nil {
			if logErr := auditlog.Append(baseDir, toAuditEntries(outcomes)); logErr != nil {
				log.Warn().Err(logErr).Msg("writing import log")
			}
		}
	}

	summary := importer.Summarize(outcomes)
	log.Info().
		Int("imported", summary.Imported).
		Int("skipped_duplicate", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("import finished")

	return runErr
}

func toAuditEntries(outcomes []importer.Outcome) []auditlog.Entry {
	entries := make([]auditlog.Entry, 0, len(outcomes))
	now := time.Now()
	for _, o := range outcomes {
		entries = append(entries, auditlog.Entry{
			Timestamp:    now,
			Outcome:      string(o.Status),
			PostDate:     o.PostDate,
			Code:         string(o.Code),
			Counterparty: o.Counterparty,
			Description:  o.Description,
		})
	}
	return entries
}
