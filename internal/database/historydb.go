package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/pdfscrub/internal/scrub"
)

// HistoryDB provides SQLite-based storage for completed scrub runs.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all runs rather
// than per-file history. This keeps listing cheap and makes the whole
// history a single artifact to back up or delete.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "pdfscrub.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY churn during batch runs.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Scrub runs store complete results as JSON plus queryable summary columns
	CREATE TABLE IF NOT EXISTS scrub_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_path TEXT NOT NULL,
		output_path TEXT,
		strategy TEXT,
		successful INTEGER NOT NULL DEFAULT 0,
		findings_before INTEGER NOT NULL DEFAULT 0,
		findings_after INTEGER NOT NULL DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input ON scrub_runs(input_path);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON scrub_runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed scrub run.
func (hdb *HistoryDB) SaveRun(ctx context.Context, result *scrub.Result) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	successful := 0
	findingsAfter := 0
	if result.Final != nil {
		findingsAfter = result.Final.TotalFindings()
		if result.Final.ScrubbingSuccessful {
			successful = 1
		}
	}
	findingsBefore := 0
	if result.Original != nil {
		findingsBefore = result.Original.TotalFindings()
	}

	query := `
	INSERT INTO scrub_runs (input_path, output_path, strategy, successful, findings_before, findings_after, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		result.InputPath,
		result.OutputPath,
		result.Strategy,
		successful,
		findingsBefore,
		findingsAfter,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save scrub run: %w", err)
	}

	return res.LastInsertId()
}

// GetRunByID retrieves a full scrub result by its database ID.
// Returns nil without error when the ID is unknown.
func (hdb *HistoryDB) GetRunByID(ctx context.Context, id int64) (*scrub.Result, error) {
	query := `
	SELECT result_json FROM scrub_runs
	WHERE id = ?
	`

	var resultJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scrub run: %w", err)
	}

	var result scrub.Result
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// GetLatestRun retrieves the most recent scrub result for an input path.
// Returns nil without error when the path was never scrubbed.
func (hdb *HistoryDB) GetLatestRun(ctx context.Context, inputPath string) (*scrub.Result, error) {
	query := `
	SELECT result_json FROM scrub_runs
	WHERE input_path = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var resultJSON string
	err := hdb.db.QueryRowContext(ctx, query, inputPath).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scrub run: %w", err)
	}

	var result scrub.Result
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// RunMetadata contains summary information about one stored run.
// This is used for displaying history without loading full results.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// InputPath is the file that was scrubbed.
	InputPath string

	// OutputPath is where the accepted candidate was written.
	OutputPath string

	// Strategy names the accepted strategy, empty for failed runs.
	Strategy string

	// Successful reports whether the run produced a clean output.
	Successful bool

	// FindingsBefore counts findings in the original file.
	FindingsBefore int

	// FindingsAfter counts findings in the accepted output.
	FindingsAfter int

	// Timestamp is when the run was stored.
	Timestamp time.Time
}

// ListRuns retrieves run summaries, most recent first.
func (hdb *HistoryDB) ListRuns(ctx context.Context) ([]RunMetadata, error) {
	query := `
	SELECT id, input_path, output_path, strategy, successful, findings_before, findings_after, timestamp
	FROM scrub_runs
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var successful int
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&meta.InputPath,
			&meta.OutputPath,
			&meta.Strategy,
			&successful,
			&meta.FindingsBefore,
			&meta.FindingsAfter,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Successful = successful != 0
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
