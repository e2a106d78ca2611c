package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/pdfscrub/internal/config"
	"github.com/nao1215/pdfscrub/internal/database"
	"github.com/nao1215/pdfscrub/internal/docmodel/pdfcpudoc"
	"github.com/nao1215/pdfscrub/internal/entropy"
	"github.com/nao1215/pdfscrub/internal/log"
	"github.com/nao1215/pdfscrub/internal/report"
	"github.com/nao1215/pdfscrub/internal/sanitize"
	"github.com/nao1215/pdfscrub/internal/scrub"
	"github.com/nao1215/pdfscrub/internal/strategy"
	"github.com/nao1215/pdfscrub/internal/validate"
	"github.com/spf13/cobra"
)

// NewScrubCmd creates the scrub command.
func NewScrubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrub [pdf-file]...",
		Short: "Remove identifying metadata from PDF files",
		Long: `Scrub removes identifying metadata from PDF files.

It tries scrub strategies in order of thoroughness (full reconstruction,
structural clearing, minimal rewrite), sanitizes the document object graph,
and forensically validates each candidate. The first candidate that passes
validation becomes the output. The original file is never modified.

Examples:
  # Scrub a single file (writes document_scrubbed.pdf)
  pdfscrub scrub document.pdf

  # Scrub to an explicit output path
  pdfscrub scrub document.pdf --output clean.pdf

  # Scrub multiple files concurrently
  pdfscrub scrub a.pdf b.pdf c.pdf

  # Output JSON report
  pdfscrub scrub --json document.pdf

  # Use a named profile from the configuration file
  pdfscrub scrub --profile strict document.pdf

Configuration file (.pdfscrub) example:
  defaults:
    entropyThreshold: 7.5
  profiles:
    strict:
      entropyThreshold: 7.0
      entropyMinLength: 50
      vendorTerms:
        - scanco`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrubCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Output path for the scrubbed file (single input only; default: <name>_scrubbed.pdf)")

	// Detection tuning flags
	cmd.Flags().Float64P("entropy-threshold", "e", config.DefaultEntropyThreshold,
		"Entropy (bits per byte) above which streams are flagged")
	cmd.Flags().IntP("entropy-min-length", "l", config.DefaultEntropyMinLength,
		"Minimum stream length in bytes for entropy analysis")

	// Batch processing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scrubs for multiple inputs")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pdfscrub in current or home directory)")
	cmd.Flags().StringP("profile", "p", "",
		"Named scrub profile from the configuration file")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags. Recording is opt-in: a scrub writes nothing but the
	// output file unless the user asks for history.
	cmd.Flags().Bool("history", false,
		"Record this run in the scrub history database")

	return cmd
}

// runScrubCmd executes the scrub command.
func runScrubCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Logs must not leak the metadata values being removed, so the
	// redacting logger is not optional here.
	logger := log.NewRedactingLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runScrub(ctx, cfg, logger)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.EntropyThreshold, err = cmd.Flags().GetFloat64("entropy-threshold")
	if err != nil {
		return nil, err
	}

	cfg.EntropyMinLength, err = cmd.Flags().GetInt("entropy-min-length")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.ProfileName, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	// Load scrub profiles from the config file.
	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.Profiles = &config.File{
			Profiles: make(map[string]config.Profile),
		}
	}

	// Profile values apply where the user did not override via flags
	profile := cfg.Profiles.GetProfile(cfg.ProfileName)
	if profile.EntropyThreshold != 0 && !cmd.Flags().Changed("entropy-threshold") {
		cfg.EntropyThreshold = profile.EntropyThreshold
	}
	if profile.EntropyMinLength != 0 && !cmd.Flags().Changed("entropy-min-length") {
		cfg.EntropyMinLength = profile.EntropyMinLength
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("history")
	if err != nil {
		return nil, err
	}
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the PDF files to process
	cfg.Targets = args

	return cfg, nil
}

// buildScrubber assembles the scrub pipeline from the configuration.
func buildScrubber(cfg *config.Config, logger *slog.Logger) *scrub.Scrubber {
	backend := pdfcpudoc.NewBackend()

	profile := config.Profile{}
	if cfg.Profiles != nil {
		profile = cfg.Profiles.GetProfile(cfg.ProfileName)
	}

	sanOpts := []sanitize.Option{sanitize.WithLogger(logger)}
	if len(profile.VendorTerms) > 0 {
		terms := make([]string, 0, len(sanitize.FontVendorTerms)+len(profile.VendorTerms))
		terms = append(terms, sanitize.FontVendorTerms...)
		terms = append(terms, profile.VendorTerms...)
		sanOpts = append(sanOpts, sanitize.WithVendorTerms(terms))
	}
	if len(profile.SafeSubtypes) > 0 {
		sanOpts = append(sanOpts, sanitize.WithSafeSubtypes(profile.SafeSubtypes))
	}

	validator := validate.New(backend,
		validate.WithLogger(logger),
		validate.WithEntropyOptions(backend,
			entropy.WithThreshold(cfg.EntropyThreshold),
			entropy.WithMinLength(cfg.EntropyMinLength),
		),
	)

	// The structural-clear strategy carries its own sanitizer reference,
	// so the strategy list must be rebuilt around the configured one.
	sanitizer := sanitize.NewSanitizer(sanOpts...)
	return scrub.NewScrubber(backend,
		scrub.WithLogger(logger),
		scrub.WithSanitizer(sanitizer),
		scrub.WithStrategies(strategy.DefaultStrategies(backend, sanitizer)...),
		scrub.WithValidator(validator),
	)
}

// runScrub executes the scrub.
func runScrub(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scrub",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open history database if recording is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	scrubber := buildScrubber(cfg, logger)

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScrub(ctx, cfg, scrubber, db, logger)
	}
	return runSequentialScrub(ctx, cfg, scrubber, db, logger)
}

// runSequentialScrub scrubs targets one at a time.
func runSequentialScrub(ctx context.Context, cfg *config.Config, scrubber *scrub.Scrubber, db *database.HistoryDB, logger *slog.Logger) error {
	var failed int

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Scrubbing %s...\n", target)
		startTime := time.Now()

		result, err := scrubber.Scrub(ctx, target, cfg.OutputPath)
		if err != nil {
			failed++
			logger.Error("scrub failed", "input", target, "error", err)
			fmt.Fprintf(os.Stderr, "Scrub error for %s: %v\n", target, err)
		} else {
			elapsed := time.Since(startTime)
			fmt.Printf("Scrub completed in %s\n\n", elapsed.Round(time.Millisecond))
		}

		if result != nil {
			if err := outputResult(cfg, result); err != nil {
				logger.Error("report failed", "input", target, "error", err)
			}
			if err := saveRun(ctx, db, result, logger); err != nil {
				logger.Error("failed to save scrub run", "input", target, "error", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be scrubbed", failed, len(cfg.Targets))
	}
	return nil
}

// runBatchScrub scrubs multiple targets concurrently using BatchProcessor.
func runBatchScrub(ctx context.Context, cfg *config.Config, scrubber *scrub.Scrubber, db *database.HistoryDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scrub of %d files (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := scrub.NewBatchProcessor(scrubber,
		scrub.WithConcurrency(cfg.BatchSize),
		scrub.WithBatchLogger(logger),
	)

	items := bp.Process(ctx, cfg.Targets)

	var failed int
	for i, item := range items {
		if item.Err != "" {
			failed++
			fmt.Fprintf(os.Stderr, "[%d/%d] Scrub failed: %s: %s\n", i+1, len(items), item.Input, item.Err)
		} else {
			fmt.Printf("[%d/%d] Scrub completed: %s\n", i+1, len(items), item.Input)
		}

		if item.Result == nil {
			continue
		}
		if err := outputResult(cfg, item.Result); err != nil {
			logger.Error("report failed", "input", item.Input, "error", err)
		}
		if err := saveRun(ctx, db, item.Result, logger); err != nil {
			logger.Error("failed to save scrub run", "input", item.Input, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scrub completed in %s\n", elapsed.Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be scrubbed", failed, len(items))
	}
	return nil
}

// outputResult writes the scrub result in the requested format.
func outputResult(cfg *config.Config, result *scrub.Result) error {
	output, closer, err := reportDestination(cfg)
	if err != nil {
		return err
	}
	defer closer()

	writer := newReportWriter(cfg, output)
	_, err = writer.Write(result)
	return err
}

// reportDestination resolves the report output, creating directories and
// the file when --report is set.
func reportDestination(cfg *config.Config) (*os.File, func(), error) {
	if cfg.ReportFile == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports can carry metadata excerpts, so keep them owner-readable only
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter selects a report writer for the configured format.
func newReportWriter(cfg *config.Config, output *os.File) report.Writer {
	if cfg.JSONReport {
		return report.NewFullJSONWriter(output, getVersion())
	}
	if cfg.MarkdownReport {
		return report.NewMarkdownWriter(output)
	}
	return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
}

// saveRun saves the scrub result to the history database if enabled.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.HistoryDB, result *scrub.Result, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRun(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save scrub run: %w", err)
	}

	logger.Info("scrub run saved to history", "input", result.InputPath, "id", id)
	return nil
}
