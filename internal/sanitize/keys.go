package sanitize

// UnconditionalDeleteKeys are info and font keys that never carry
// anything but attribution and are always deleted outright.
var UnconditionalDeleteKeys = []string{
	"Registry",
	"Ordering",
	"Supplement",
	"Creator",
	"Producer",
	"CreationDate",
	"ModDate",
}

// PageDangerKeys are page-level keys that carry metadata, editing
// history, or authoring-tool state rather than page content.
var PageDangerKeys = []string{
	"Metadata",
	"PieceInfo",
	"SeparationInfo",
	"Tabs",
	"TemplateInstantiated",
	"PresSteps",
	"UserUnit",
	"LastModified",
}

// CatalogDangerKeys are catalog keys removed during sanitization.
// AcroForm and Outlines carry author-visible naming; Metadata,
// PieceInfo, and Perms carry tool state.
var CatalogDangerKeys = []string{
	"Metadata",
	"PieceInfo",
	"Perms",
	"AcroForm",
	"Outlines",
}

// RootDangerKeys are catalog substructures that can carry scripts,
// attachments, or multimedia payloads. Several of them are
// conventionally mirrored inside the catalog's Names table, so both
// locations are cleaned.
var RootDangerKeys = []string{
	"JavaScript",
	"JS",
	"EmbeddedFiles",
	"Multimedia",
	"3D",
	"RichMedia",
	"FileAttachment",
	"Sound",
	"Movie",
	"Screen",
	"Widget",
	"Popup",
}

// AnnotationSafeSubtypes are the annotation kinds kept after
// sanitization. Everything else (links with actions, file attachments,
// multimedia, widgets) is removed with the annotation it rides on.
var AnnotationSafeSubtypes = []string{
	"Text",
	"FreeText",
	"Line",
	"Square",
	"Circle",
	"Polygon",
	"PolyLine",
	"Highlight",
	"Underline",
	"Squiggly",
	"StrikeOut",
	"Stamp",
	"Ink",
}

// AnnotationStripKeys are the metadata fields removed from annotations
// that survive the subtype filter: author title, contents, rich
// content, dates, name, and subject.
var AnnotationStripKeys = []string{
	"T",
	"Contents",
	"RC",
	"CreationDate",
	"M",
	"NM",
	"Subj",
}

// FontAttributionKeys are font and font-descriptor fields whose values
// can name the authoring tool or licensed foundry.
var FontAttributionKeys = []string{
	"BaseFont",
	"FontName",
	"FontFamily",
	"FontStretch",
	"FontWeight",
	"Name",
}

// FontPlaceholderKeys are the name-typed attribution fields that get
// the generic placeholder when their value matches a vendor term.
// Matched fields outside this set are free text and are deleted
// outright.
var FontPlaceholderKeys = []string{
	"BaseFont",
	"FontName",
	"FontFamily",
	"Name",
}

// FontVendorTerms are substrings (matched case-insensitively) that mark
// a font attribution value as identifying.
var FontVendorTerms = []string{
	"adobe",
	"microsoft",
	"pages",
	"word",
	"acrobat",
	"times",
	"helvetica",
	"arial",
	"symbol",
	"courier",
}

// FontPlaceholder replaces identifying font attribution values. A bare
// generic name carries no vendor information.
const FontPlaceholder = "F1"
