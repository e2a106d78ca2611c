package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match the forensic validation defaults used throughout
// the scrub pipeline.
const (
	// DefaultEntropyThreshold is the Shannon entropy (bits per byte) above
	// which a stream is flagged as a potential steganographic payload.
	// Compressed PDF content typically sits between 6.0 and 7.4; encrypted
	// or random data approaches 8.0.
	DefaultEntropyThreshold = 7.5

	// DefaultEntropyMinLength is the minimum stream length in bytes for
	// entropy analysis. Shorter streams produce unstable entropy estimates
	// and would cause false positives.
	DefaultEntropyMinLength = 100

	// DefaultBatchSize of 4 concurrent scrubs balances throughput with
	// memory usage. Each scrub holds a full document model in memory, so
	// higher values can exhaust memory on large inputs.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "pdfscrub"
)

// Config holds all configuration options for pdfscrub.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ScrubConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// EntropyThreshold is the entropy (bits per byte) above which streams
	// are flagged during validation. Must be in the range (0, 8].
	EntropyThreshold float64

	// EntropyMinLength is the minimum stream length in bytes considered
	// for entropy analysis. Must be positive.
	EntropyMinLength int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent scrubs when processing
	// multiple inputs. Higher values increase throughput but use more memory.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pdfscrub in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// ProfileName selects a named scrub profile from the config file.
	// If empty, only the file's defaults apply.
	ProfileName string

	// Profiles holds scrub profiles loaded from the config file.
	// This is populated by LoadConfigFile and used when building
	// the sanitizer and validator.
	Profiles *File

	// JSONReport enables JSON report output instead of human-readable format.
	// When true, outputs the full result with all check details.
	// When false, outputs a human-readable simple report (default).
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// When true, outputs GitHub Flavored Markdown with tables, alerts, and pie charts.
	// When false, outputs a human-readable simple report (default).
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of PDF files to process.
	// Must contain at least one path.
	Targets []string

	// OutputPath is where the scrubbed file is written. Only meaningful
	// for single-target runs; batch runs derive per-file output paths.
	// When empty, "<name>_scrubbed.pdf" next to the input is used.
	OutputPath string

	// DBDir is the directory path for storing the SQLite history database.
	// When set, scrub results are saved for historical comparison.
	// When empty, results are not persisted.
	// Defaults to the XDG data directory (~/.local/share/pdfscrub on Linux).
	DBDir string

	// SaveToDB indicates whether to save scrub results to the history database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., entropy threshold).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		EntropyThreshold: DefaultEntropyThreshold,
		EntropyMinLength: DefaultEntropyMinLength,
		BatchSize:        DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for pdfscrub.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/pdfscrub
// On macOS: ~/Library/Application Support/pdfscrub
// On Windows: %LOCALAPPDATA%\pdfscrub
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pdfscrub.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/pdfscrub
// On macOS: ~/Library/Application Support/pdfscrub
// On Windows: %APPDATA%\pdfscrub
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for pdfscrub.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/pdfscrub
// On macOS: ~/Library/Caches/pdfscrub
// On Windows: %LOCALAPPDATA%\pdfscrub\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scrubbing begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one file to process
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Entropy is measured in bits per byte, so 8 is the theoretical maximum
	if c.EntropyThreshold <= 0 || c.EntropyThreshold > 8 {
		return ErrInvalidEntropyThreshold
	}

	// A zero or negative minimum length would analyze every stream fragment
	if c.EntropyMinLength <= 0 {
		return ErrInvalidEntropyMinLength
	}

	// BatchSize must be positive; zero would mean no processing
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// An explicit output path only makes sense for a single input
	if c.OutputPath != "" && len(c.Targets) > 1 {
		return ErrOutputWithMultipleTargets
	}

	return nil
}
