package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/pdfscrub/internal/model"
	"github.com/nao1215/pdfscrub/internal/scrub"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether checks with no findings are shown.
	showEmpty bool

	// verbose enables per-finding detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show clean checks.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with per-finding details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full scrub result in human-readable format.
func (w *SimpleWriter) Write(result *scrub.Result) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeAttempts(&sb, result)

	if result.Final != nil {
		sb.WriteString("FINAL VALIDATION\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")
		w.writeReportBody(&sb, result.Final)
	}

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteReport outputs a single forensic report in human-readable format.
func (w *SimpleWriter) WriteReport(report *model.ForensicReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      FORENSIC VALIDATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	w.writeReportBody(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the scrub run header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *scrub.Result) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          PDFSCRUB REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Input:   %s\n", result.InputPath))
	if result.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Output:  %s\n", result.OutputPath))
	}
	if result.Strategy != "" {
		sb.WriteString(fmt.Sprintf("Method:  %s\n", result.Strategy))
	}

	if result.Original != nil {
		sb.WriteString(fmt.Sprintf("Original findings: %d\n", result.Original.TotalFindings()))
	}

	switch {
	case result.Final != nil && result.Final.ScrubbingSuccessful:
		sb.WriteString("Status:  SCRUBBED\n")
	default:
		sb.WriteString("Status:  FAILED\n")
	}
	sb.WriteString("\n")
}

// writeAttempts writes the per-strategy attempt log.
func (w *SimpleWriter) writeAttempts(sb *strings.Builder, result *scrub.Result) {
	if len(result.Attempts) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("STRATEGIES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, attempt := range result.Attempts {
		if attempt.Accepted {
			sb.WriteString(fmt.Sprintf("  [+] %s: accepted\n", attempt.Strategy))
			continue
		}
		sb.WriteString(fmt.Sprintf("  [-] %s: %s\n", attempt.Strategy, attempt.Failure))
	}
	sb.WriteString("\n")
}

// writeReportBody writes the check-by-check verdict for one report.
func (w *SimpleWriter) writeReportBody(sb *strings.Builder, report *model.ForensicReport) {
	sb.WriteString(fmt.Sprintf("File:       %s (%d bytes)\n", report.FilePath, report.FileSize))
	sb.WriteString(fmt.Sprintf("Verdict:    %s\n", w.verdictText(report)))
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", report.ConfidenceText))
	sb.WriteString(fmt.Sprintf("Structure:  %s\n", w.structureText(report)))
	sb.WriteString("\n")

	for _, check := range report.Checks {
		if !check.Found && !w.showEmpty {
			continue
		}
		marker := "clean"
		if check.Found {
			marker = fmt.Sprintf("%d finding(s)", check.DetailCount())
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", check.KindText, marker))

		if !w.verbose {
			continue
		}
		for _, f := range check.Findings {
			sb.WriteString(fmt.Sprintf("      %s %s", f.LocationText, f.Key))
			if f.ValueExcerpt != "" {
				sb.WriteString(fmt.Sprintf(" = %s", f.ValueExcerpt))
			}
			sb.WriteString("\n")
		}
		for _, e := range check.EntropyReports {
			sb.WriteString(fmt.Sprintf("      %s entropy=%.2f length=%d\n",
				e.ObjectID, e.Entropy, e.ByteLength))
		}
		for _, issue := range check.Issues {
			sb.WriteString(fmt.Sprintf("      %s\n", issue))
		}
	}
	sb.WriteString("\n")
}

// verdictText renders the metadata verdict.
func (w *SimpleWriter) verdictText(report *model.ForensicReport) string {
	if report.MetadataDetected {
		return "METADATA DETECTED"
	}
	return "CLEAN"
}

// structureText renders the structural-integrity state.
func (w *SimpleWriter) structureText(report *model.ForensicReport) string {
	if report.StructurallyValid {
		return "valid"
	}
	return "ISSUES (see structure check)"
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by pdfscrub\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
