package model

import "time"

// CheckKind identifies one of the forensic validation checks.
type CheckKind int

const (
	// CheckDocInfo reads the document-info dictionary and XMP packet
	// through the primary document model.
	CheckDocInfo CheckKind = iota

	// CheckCrossReader reads document-info and XMP presence through a
	// second, independent reader. It cross-validates CheckDocInfo: a bug
	// or omission in either traversal is caught by the other.
	CheckCrossReader

	// CheckBinaryPatterns searches the raw file bytes for canonical
	// metadata-key tokens and XMP packet markers.
	CheckBinaryPatterns

	// CheckEntropy sweeps every readable object for anomalously random
	// content that may indicate a hidden payload.
	CheckEntropy

	// CheckAdvanced inspects metadata locations beyond the info
	// dictionary: page-level keys, annotation fields, font attribution,
	// embedded-image EXIF, and the canonical vendor byte token.
	CheckAdvanced

	// CheckStructure measures structural integrity with two independent
	// readers. Its findings are reported but never flip the metadata
	// verdict: it measures integrity, not leakage.
	CheckStructure
)

// String returns the check's identifier for logs and reports.
func (k CheckKind) String() string {
	switch k {
	case CheckDocInfo:
		return "doc_info"
	case CheckCrossReader:
		return "cross_reader"
	case CheckBinaryPatterns:
		return "binary_patterns"
	case CheckEntropy:
		return "entropy"
	case CheckAdvanced:
		return "advanced_locations"
	case CheckStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// CountsTowardVerdict reports whether a check's findings contribute to the
// aggregate metadata_detected verdict.
func (k CheckKind) CountsTowardVerdict() bool {
	return k != CheckStructure
}

// CheckResult is the outcome of one forensic validation check.
// Invariant: Found is true exactly when the result carries details
// (findings, entropy reports, or issues). Use the constructors; they
// enforce the invariant.
type CheckResult struct {
	// Kind identifies the check.
	Kind CheckKind `json:"-"`

	// KindText is the human-readable check identifier.
	KindText string `json:"check"`

	// Found reports whether the check detected anything.
	Found bool `json:"found"`

	// Findings carries located metadata, for metadata-oriented checks.
	Findings []Finding `json:"findings,omitempty"`

	// EntropyReports carries flagged objects, for the entropy check.
	EntropyReports []EntropyReport `json:"entropy_reports,omitempty"`

	// Issues carries human-readable problems, for the structure check.
	Issues []string `json:"issues,omitempty"`
}

// NewFindingsResult builds a result for a metadata-oriented check.
func NewFindingsResult(kind CheckKind, findings []Finding) CheckResult {
	return CheckResult{
		Kind:     kind,
		KindText: kind.String(),
		Found:    len(findings) > 0,
		Findings: findings,
	}
}

// NewEntropyResult builds a result for the entropy sweep.
func NewEntropyResult(reports []EntropyReport) CheckResult {
	return CheckResult{
		Kind:           CheckEntropy,
		KindText:       CheckEntropy.String(),
		Found:          len(reports) > 0,
		EntropyReports: reports,
	}
}

// NewErrorResult marks a check that could not run. The verdict fails
// closed: a file that cannot be inspected cannot be declared clean, so
// the result counts as found with the error as its detail.
func NewErrorResult(kind CheckKind, err error) CheckResult {
	return CheckResult{
		Kind:     kind,
		KindText: kind.String(),
		Found:    true,
		Issues:   []string{err.Error()},
	}
}

// NewIssuesResult builds a result for the structural-integrity check.
func NewIssuesResult(issues []string) CheckResult {
	return CheckResult{
		Kind:     CheckStructure,
		KindText: CheckStructure.String(),
		Found:    len(issues) > 0,
		Issues:   issues,
	}
}

// DetailCount returns the number of details carried by the result.
func (c CheckResult) DetailCount() int {
	return len(c.Findings) + len(c.EntropyReports) + len(c.Issues)
}

// Confidence expresses how certain the validator is that scrubbing
// succeeded.
type Confidence int

const (
	// ConfidenceLow means at least one check still found metadata.
	ConfidenceLow Confidence = iota

	// ConfidenceHigh means every verdict-bearing check came back clean.
	ConfidenceHigh
)

// String returns "HIGH" or "LOW".
func (c Confidence) String() string {
	if c == ConfidenceHigh {
		return "HIGH"
	}
	return "LOW"
}

// Timestamps captures filesystem times for one file snapshot. They are
// informational only and never contribute to the verdict.
type Timestamps struct {
	// Created is the inode change time where the platform exposes it.
	Created time.Time `json:"created"`

	// Modified is the file's modification time.
	Modified time.Time `json:"modified"`

	// Accessed is the file's last access time where the platform
	// exposes it.
	Accessed time.Time `json:"accessed"`
}

// ForensicReport aggregates all check results for one file snapshot.
// A report is created fresh per snapshot (the original and every
// candidate) and is never mutated after construction.
type ForensicReport struct {
	// FilePath is the inspected file.
	FilePath string `json:"file_path"`

	// FileSize is the file's size in bytes.
	FileSize int64 `json:"file_size"`

	// Timestamps are the file's filesystem times (informational).
	Timestamps Timestamps `json:"filesystem_metadata"`

	// Checks holds every check result in execution order.
	Checks []CheckResult `json:"metadata_checks"`

	// StructurallyValid mirrors the structure check: true when the
	// document parsed, every page was readable, and no integrity issue
	// was reported. A structurally broken but metadata-clean file still
	// validates as scrubbed; callers that care inspect this field.
	StructurallyValid bool `json:"structurally_valid"`

	// MetadataDetected is the OR over every verdict-bearing check.
	MetadataDetected bool `json:"metadata_detected"`

	// ScrubbingSuccessful is the negation of MetadataDetected.
	ScrubbingSuccessful bool `json:"scrubbing_successful"`

	// Confidence is HIGH exactly when scrubbing succeeded.
	Confidence Confidence `json:"-"`

	// ConfidenceText is the human-readable confidence for serialization.
	ConfidenceText string `json:"confidence_level"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewForensicReport computes the aggregate verdict from the given check
// results. The structure check informs StructurallyValid but is excluded
// from the verdict OR, and timestamps are carried without affecting it.
func NewForensicReport(path string, size int64, ts Timestamps, checks []CheckResult) *ForensicReport {
	detected := false
	structurallyValid := true
	for _, c := range checks {
		if c.Kind == CheckStructure {
			structurallyValid = !c.Found
			continue
		}
		if c.Kind.CountsTowardVerdict() && c.Found {
			detected = true
		}
	}

	confidence := ConfidenceHigh
	if detected {
		confidence = ConfidenceLow
	}

	return &ForensicReport{
		FilePath:            path,
		FileSize:            size,
		Timestamps:          ts,
		Checks:              checks,
		StructurallyValid:   structurallyValid,
		MetadataDetected:    detected,
		ScrubbingSuccessful: !detected,
		Confidence:          confidence,
		ConfidenceText:      confidence.String(),
		GeneratedAt:         time.Now(),
	}
}

// CheckByKind returns the result for the given check kind, if present.
func (r *ForensicReport) CheckByKind(kind CheckKind) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Kind == kind {
			return c, true
		}
	}
	return CheckResult{}, false
}

// TotalFindings counts findings across every check.
func (r *ForensicReport) TotalFindings() int {
	total := 0
	for _, c := range r.Checks {
		total += c.DetailCount()
	}
	return total
}
