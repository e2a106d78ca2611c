package model

import "unicode/utf8"

// Location identifies where inside a document a piece of metadata lives.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Location int

const (
	// LocationDocInfo is the document-info dictionary (Author, Producer,
	// dates, and friends).
	LocationDocInfo Location = iota

	// LocationXMP is the embedded XMP metadata packet.
	LocationXMP

	// LocationPageMetadata covers page-level metadata keys (Metadata,
	// PieceInfo, SeparationInfo, Tabs, TemplateInstantiated, PresSteps,
	// UserUnit).
	LocationPageMetadata

	// LocationAnnotation covers metadata-bearing annotation fields
	// (title, contents, rich content, dates, name, subject).
	LocationAnnotation

	// LocationFont covers attribution fields on font resources.
	LocationFont

	// LocationFontDescriptor covers attribution fields on font
	// descriptor sub-objects.
	LocationFontDescriptor

	// LocationBinarySignature is a vendor byte-pattern found in the raw
	// file outside any structural location.
	LocationBinarySignature

	// LocationEmbeddedImage is EXIF metadata inside an embedded image
	// stream.
	LocationEmbeddedImage
)

// String returns a human-readable representation of the location.
func (l Location) String() string {
	switch l {
	case LocationDocInfo:
		return "doc_info"
	case LocationXMP:
		return "xmp"
	case LocationPageMetadata:
		return "page_metadata"
	case LocationAnnotation:
		return "annotation"
	case LocationFont:
		return "font"
	case LocationFontDescriptor:
		return "font_descriptor"
	case LocationBinarySignature:
		return "binary_signature"
	case LocationEmbeddedImage:
		return "embedded_image"
	default:
		return "unknown"
	}
}

// maxExcerptLen bounds the value excerpt carried by a finding. Metadata
// values can be arbitrarily long (XMP packets, rich-text annotation
// bodies); reports only need enough to identify the leak.
const maxExcerptLen = 50

// Finding is a single piece of identifying metadata located in a document.
// Findings are produced by detection and validation code, never mutated,
// only collected into lists.
type Finding struct {
	// Location identifies where the metadata lives.
	Location Location `json:"-"`

	// LocationText is the human-readable location for serialization.
	LocationText string `json:"location"`

	// Key is the symbolic key or token that carried the metadata.
	Key string `json:"key"`

	// ValueExcerpt is the value truncated to maxExcerptLen runes.
	ValueExcerpt string `json:"value_excerpt,omitempty"`
}

// NewFinding creates a Finding with the value truncated for display.
func NewFinding(loc Location, key, value string) Finding {
	return Finding{
		Location:     loc,
		LocationText: loc.String(),
		Key:          key,
		ValueExcerpt: truncate(value, maxExcerptLen),
	}
}

// truncate shortens s to at most n runes without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// EntropyReport records one anomalously random object flagged by the
// entropy sweep. Entropy is Shannon entropy over the byte distribution,
// in the range [0, 8].
type EntropyReport struct {
	// ObjectID identifies the flagged object within its document.
	ObjectID string `json:"object_id"`

	// Entropy is the measured Shannon entropy in bits per byte.
	Entropy float64 `json:"entropy"`

	// ByteLength is the length of the inspected content.
	ByteLength int `json:"byte_length"`
}
