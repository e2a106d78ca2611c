package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/nao1215/pdfscrub/internal/config"
	"github.com/nao1215/pdfscrub/internal/database"
	"github.com/nao1215/pdfscrub/internal/report"
	"github.com/nao1215/pdfscrub/internal/scrub"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command inspects scrub runs recorded in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [pdf-file]",
		Short: "Show recorded scrub runs",
		Long: `History displays scrub runs recorded in the history database.

Without arguments it lists all recorded runs with their outcome and finding
counts. With a file argument it shows the most recent run for that file.
Use --id to print the full stored result of a specific run.

Runs are recorded when 'pdfscrub scrub' is invoked with --history.

Examples:
  # List all recorded runs
  pdfscrub history

  # Show the latest run for a file
  pdfscrub history document.pdf

  # Show the full result of run 5 as JSON
  pdfscrub history --id 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0,
		"Show the full stored result for a specific run ID (use bare 'history' to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the selected run in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	runID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// History is read-only here: never create the database just to
	// report that it is empty.
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return errors.New("no scrub history found (runs are recorded by 'pdfscrub scrub --history')")
	}
	defer db.Close()

	ctx := context.Background()

	if runID != 0 {
		return showRun(ctx, db, runID, jsonOutput)
	}

	if len(args) == 1 {
		return showLatestRun(ctx, db, args[0], jsonOutput)
	}

	return listHistory(ctx, db)
}

// showRun prints the full stored result for one run.
func showRun(ctx context.Context, db *database.HistoryDB, id int64, jsonOutput bool) error {
	result, err := db.GetRunByID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("no run with ID %d (use 'pdfscrub history' to list runs)", id)
	}

	return writeStoredResult(result, jsonOutput)
}

// showLatestRun prints the most recent run for a file.
func showLatestRun(ctx context.Context, db *database.HistoryDB, inputPath string, jsonOutput bool) error {
	result, err := db.GetLatestRun(ctx, inputPath)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("no recorded runs for %s", inputPath)
	}

	return writeStoredResult(result, jsonOutput)
}

// writeStoredResult renders one stored result to stdout.
func writeStoredResult(result *scrub.Result, jsonOutput bool) error {
	if jsonOutput {
		w := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
		_, err := w.Write(result)
		return err
	}

	w := report.NewSimpleWriter(os.Stdout, report.WithVerbose(true))
	_, err := w.Write(result)
	return err
}

// listHistory prints a summary table of all recorded runs.
func listHistory(ctx context.Context, db *database.HistoryDB) error {
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tINPUT\tSTRATEGY\tSTATUS\tFINDINGS")
	for _, run := range runs {
		status := "failed"
		if run.Successful {
			status = "scrubbed"
		}
		strategy := run.Strategy
		if strategy == "" {
			strategy = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d -> %d\n",
			run.ID,
			run.Timestamp.Format(time.DateTime),
			run.InputPath,
			strategy,
			status,
			run.FindingsBefore,
			run.FindingsAfter,
		)
	}
	return tw.Flush()
}
