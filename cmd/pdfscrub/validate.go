package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/pdfscrub/internal/config"
	"github.com/nao1215/pdfscrub/internal/log"
	"github.com/nao1215/pdfscrub/internal/scrub"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [pdf-file]...",
		Short: "Forensically check PDF files for identifying metadata",
		Long: `Validate runs the forensic check battery against PDF files without
modifying them.

Every check that would gate a scrub output runs here: document information
dictionary and XMP inspection, an independent second reader, byte-level
signature scanning, entropy analysis, and deep object-graph inspection.

The command exits non-zero when identifying metadata is detected in any
file, so it can gate automated workflows.

Examples:
  # Validate a single file
  pdfscrub validate document.pdf

  # Validate several files with JSON output
  pdfscrub validate --json a.pdf b.pdf

  # Tighten the entropy threshold
  pdfscrub validate --entropy-threshold 7.0 document.pdf`,
		Args: cobra.ArbitraryArgs,
		RunE: runValidateCmd,
	}

	cmd.Flags().Float64P("entropy-threshold", "e", config.DefaultEntropyThreshold,
		"Entropy (bits per byte) above which streams are flagged")
	cmd.Flags().IntP("entropy-min-length", "l", config.DefaultEntropyMinLength,
		"Minimum stream length in bytes for entropy analysis")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pdfscrub in current or home directory)")
	cmd.Flags().StringP("profile", "p", "",
		"Named scrub profile from the configuration file")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	// validate has no output/batch/history flags, so the config is
	// assembled here instead of through the scrub command's buildConfig.
	cfg := config.NewConfig()
	cfg.Targets = args

	var err error
	cfg.EntropyThreshold, err = cmd.Flags().GetFloat64("entropy-threshold")
	if err != nil {
		return err
	}
	cfg.EntropyMinLength, err = cmd.Flags().GetInt("entropy-min-length")
	if err != nil {
		return err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg.ProfileName, err = cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		profile := cfg.Profiles.GetProfile(cfg.ProfileName)
		if profile.EntropyThreshold != 0 && !cmd.Flags().Changed("entropy-threshold") {
			cfg.EntropyThreshold = profile.EntropyThreshold
		}
		if profile.EntropyMinLength != 0 && !cmd.Flags().Changed("entropy-min-length") {
			cfg.EntropyMinLength = profile.EntropyMinLength
		}
	} else if cfg.ConfigFilePath != "" {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewRedactingLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runValidate(ctx, cfg, logger)
}

// runValidate checks every target and reports per-file verdicts.
func runValidate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	scrubber := buildScrubber(cfg, logger)

	var detected int
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		forensicReport, err := scrubber.ValidateOnly(ctx, target)
		if errors.Is(err, scrub.ErrMetadataDetected) {
			detected++
		} else if err != nil {
			return fmt.Errorf("validation of %s failed: %w", target, err)
		}

		output, closer, destErr := reportDestination(cfg)
		if destErr != nil {
			return destErr
		}
		writer := newReportWriter(cfg, output)
		_, writeErr := writer.WriteReport(forensicReport)
		closer()
		if writeErr != nil {
			return writeErr
		}
	}

	if detected > 0 {
		return fmt.Errorf("identifying metadata detected in %d of %d files", detected, len(cfg.Targets))
	}
	return nil
}
