// Command get-papers-list searches PubMed and lists papers with
// non-academic authors.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/henrybloomingdale/get-papers-list/internal/config"
	"github.com/henrybloomingdale/get-papers-list/internal/eutils"
	"github.com/henrybloomingdale/get-papers-list/internal/observability"
	"github.com/henrybloomingdale/get-papers-list/internal/pipeline"
	"github.com/henrybloomingdale/get-papers-list/internal/report"
)

var (
	flagFile        string
	flagDebug       bool
	flagJSON        bool
	flagSort        bool
	flagEnrich      bool
	flagEmailColumn bool
	flagLimit       int
	flagAPIKey      string
	flagConfig      string
	flagLogFormat   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "get-papers-list <query>",
	Short: "List PubMed papers with non-academic authors",
	Long: `Search PubMed for a query and report, for each of the top results, the
authors whose affiliation mentions neither "university" nor "college".

Results go to the console, or to a CSV file with --file.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateGlobalFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), buildQuery(args), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Filename to save the results (CSV)")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "Print debug information during execution")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Print results as JSON instead of a table")
	rootCmd.Flags().BoolVar(&flagSort, "sort", false, "Order rows by PubMed ID instead of API order")
	rootCmd.Flags().BoolVar(&flagEnrich, "enrich", false, "Fill missing affiliations from PubMed records (one extra request)")
	rootCmd.Flags().BoolVar(&flagEmailColumn, "email-column", false, "Add a corresponding author email column")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 0, fmt.Sprintf("Number of papers to fetch (1-%d, default from config)", eutils.MaxSearchResults))
	rootCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "NCBI API key (or set NCBI_API_KEY env var)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default: ./get-papers-list.yaml or ~/.config/get-papers-list/get-papers-list.yaml)")
	rootCmd.Flags().StringVar(&flagLogFormat, "log-format", "", "Log format: console or json")
}

func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func validateGlobalFlags(cmd *cobra.Command) error {
	if flagLimit < 0 || flagLimit > eutils.MaxSearchResults {
		return fmt.Errorf("--limit must be between 1 and %d", eutils.MaxSearchResults)
	}
	if flagJSON && flagFile != "" {
		return fmt.Errorf("--json cannot be combined with --file")
	}
	switch flagLogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("--log-format must be console or json, got %q", flagLogFormat)
	}
	return nil
}

func run(ctx context.Context, query string, stdout, stderr io.Writer) error {
	if query == "" {
		return fmt.Errorf("search query cannot be empty")
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		TimeFormat: time.Kitchen,
	}, stderr)
	logger = observability.WithQueryContext(logger, query)

	client := eutils.NewClient(
		eutils.WithBaseURL(cfg.NCBI.BaseURL),
		eutils.WithAPIKey(cfg.NCBI.APIKey),
		eutils.WithTool(cfg.NCBI.Tool),
		eutils.WithEmail(cfg.NCBI.Email),
		eutils.WithTimeout(cfg.NCBI.Timeout),
		eutils.WithMaxResponseBytes(cfg.NCBI.MaxResponseBytes),
		eutils.WithLogger(logger),
	)

	logger.Info().Msg("Fetching papers...")
	rows, err := pipeline.New(client, logger).Run(ctx, query, pipeline.Options{
		Limit:      cfg.Search.Limit,
		Enrich:     flagEnrich,
		SortByPMID: flagSort,
	})
	if err != nil {
		return err
	}

	variant := report.Standard
	if flagEmailColumn {
		variant = report.WithEmail
	}

	if flagFile != "" {
		if err := report.WriteCSV(flagFile, rows, variant); err != nil {
			return fmt.Errorf("CSV export failed: %w", err)
		}
		fmt.Fprintf(stdout, "Results saved to %s\n", flagFile)
		return nil
	}

	format := report.FormatTable
	if flagJSON {
		format = report.FormatJSON
	}
	return report.Render(stdout, rows, variant, format)
}

// applyFlags lets command-line flags override loaded configuration.
func applyFlags(cfg *config.Config) {
	if flagAPIKey != "" {
		cfg.NCBI.APIKey = flagAPIKey
	}
	if flagLimit > 0 {
		cfg.Search.Limit = flagLimit
	}
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}
}
