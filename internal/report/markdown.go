package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/pdfscrub/internal/model"
	"github.com/nao1215/pdfscrub/internal/scrub"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full scrub result in Markdown format.
func (w *MarkdownWriter) Write(result *scrub.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("pdfscrub Report")
	md.PlainText("")

	rows := [][]string{
		{"Input", "`" + result.InputPath + "`"},
		{"Status", w.statusText(result)},
	}
	if result.OutputPath != "" {
		rows = append(rows, []string{"Output", "`" + result.OutputPath + "`"})
	}
	if result.Strategy != "" {
		rows = append(rows, []string{"Method", result.Strategy})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeAttempts(md, result)

	if result.Original != nil {
		md.H2("Original File")
		md.PlainText("")
		w.writeReportSections(md, result.Original)
	}
	if result.Final != nil {
		md.H2("Scrubbed Output")
		md.PlainText("")
		w.writeReportSections(md, result.Final)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteReport outputs a single forensic report in Markdown format.
func (w *MarkdownWriter) WriteReport(report *model.ForensicReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Forensic Validation Report")
	md.PlainText("")
	w.writeReportSections(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// statusText renders the run outcome.
func (w *MarkdownWriter) statusText(result *scrub.Result) string {
	if result.Final != nil && result.Final.ScrubbingSuccessful {
		return "✅ Scrubbed"
	}
	return "❌ Failed"
}

// writeAttempts writes the per-strategy attempt table.
func (w *MarkdownWriter) writeAttempts(md *markdown.Markdown, result *scrub.Result) {
	if len(result.Attempts) == 0 {
		return
	}

	md.H2("Strategies")
	md.PlainText("")

	rows := make([][]string, len(result.Attempts))
	for i, attempt := range result.Attempts {
		outcome := "accepted"
		if !attempt.Accepted {
			outcome = attempt.Failure
		}
		rows[i] = []string{attempt.Strategy, outcome}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Strategy", "Outcome"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeReportSections writes the verdict, check table, distribution
// chart, and alert for one forensic report.
func (w *MarkdownWriter) writeReportSections(md *markdown.Markdown, report *model.ForensicReport) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"File", "`" + report.FilePath + "`"},
			{"Size", strconv.FormatInt(report.FileSize, 10) + " bytes"},
			{"Metadata detected", strconv.FormatBool(report.MetadataDetected)},
			{"Confidence", report.ConfidenceText},
			{"Structurally valid", strconv.FormatBool(report.StructurallyValid)},
		},
	})
	md.PlainText("")

	w.writeCheckTable(md, report)

	if report.TotalFindings() > 0 {
		w.writePieChart(md, report)
	}
	w.writeAlert(md, report)
}

// writeCheckTable writes one row per check with its detail count.
func (w *MarkdownWriter) writeCheckTable(md *markdown.Markdown, report *model.ForensicReport) {
	rows := make([][]string, len(report.Checks))
	for i, check := range report.Checks {
		state := "clean"
		if check.Found {
			state = "found"
		}
		rows[i] = []string{check.KindText, state, strconv.Itoa(check.DetailCount())}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "State", "Details"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, check := range report.Checks {
		for _, f := range check.Findings {
			value := f.ValueExcerpt
			if value == "" {
				value = "-"
			}
			md.BulletList(check.KindText + ": " + f.LocationText + " `" + f.Key + "` = " + truncateString(value, 50))
		}
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of findings per check.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ForensicReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Distribution by Check"),
		piechart.WithShowData(true),
	)

	for _, check := range report.Checks {
		if check.DetailCount() == 0 {
			continue
		}
		chart.LabelAndIntValue(check.KindText, uint64(check.DetailCount()))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ForensicReport) {
	switch {
	case report.MetadataDetected:
		md.Cautionf(
			"Identifying metadata detected: %d finding(s) across %d check(s).",
			report.TotalFindings(), len(report.Checks),
		)
	case !report.StructurallyValid:
		md.Warningf(
			"No metadata detected, but the structure check reported issues. Verify the document still renders.",
		)
	default:
		md.Tip("No identifying metadata detected.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by pdfscrub*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
