package docmodel

// Backend opens documents and performs whole-file rewrite operations.
// Implementations wrap one PDF engine each.
type Backend interface {
	// Open parses the file at path and returns an exclusively-owned
	// Document handle. Returns an error wrapping ErrParse when the file
	// cannot be parsed as a document.
	Open(path string) (Document, error)

	// Rebuild writes a brand-new document containing the input's page
	// graph to output. No original trailer or cross-reference history
	// survives the rebuild. Returns an error wrapping ErrParse or
	// ErrWrite.
	Rebuild(input, output string) error

	// RewritePages copies all pages of input into a fresh writer with an
	// empty metadata set and saves the result to output. This is the
	// narrowest rewrite the engine offers; the writer may re-emit its own
	// producer metadata, which is why candidates are always validated.
	RewritePages(input, output string) error
}

// Document is an exclusively-owned session over one document's object
// graph. It is mutated in place by sanitizer operations and must be
// released with Close by whichever function currently holds it.
type Document interface {
	// Pages returns the page dictionaries in document order.
	Pages() ([]Dict, error)

	// Root returns the document catalog dictionary.
	Root() (Dict, error)

	// Trailer returns the trailer dictionary. At minimum the keys "Root"
	// and "Info" are observable and "Info" is deletable.
	Trailer() (Dict, error)

	// Info returns the document-info dictionary. When the document has no
	// info dictionary an empty Dict is returned; mutations of an absent
	// info dictionary are no-ops.
	Info() (Dict, error)

	// Objects returns every low-level object in the document. Objects
	// without readable raw bytes report that via RawBytes.
	Objects() ([]Object, error)

	// XMP returns the document's XMP metadata packet as a key-enumerable
	// dictionary, or an error wrapping ErrNoXMP when absent.
	XMP() (Dict, error)

	// DeleteXMP removes the XMP metadata packet. Absence is not an error.
	DeleteXMP() error

	// Save serializes the document to path. Returns an error wrapping
	// ErrWrite on failure; no partial file is left behind.
	Save(path string) error

	// Close releases the handle without saving.
	Close() error
}

// Dict is a mutable key-value dictionary inside the object graph.
// Keys are symbolic names without the leading slash ("Producer", not
// "/Producer").
type Dict interface {
	// Keys returns the dictionary's keys in a stable order.
	Keys() []string

	// Has reports whether key is present.
	Has(key string) bool

	// String returns the stringified value for key and whether the key
	// resolved to a representable value.
	String(key string) (string, bool)

	// SetName stores a name-typed value under key.
	SetName(key, name string) error

	// SetString stores a text-string value under key.
	SetString(key, value string) error

	// Delete removes key. Deleting an absent key is a no-op. A read-only
	// key returns an error wrapping ErrReadOnlyKey.
	Delete(key string) error

	// Dict returns the nested dictionary stored under key, if any.
	Dict(key string) (Dict, bool)

	// DictArray returns the array of dictionaries stored under key, if any.
	DictArray(key string) ([]Dict, bool)

	// SetDictArray replaces the array under key with items.
	SetDictArray(key string, items []Dict) error
}

// Object is a low-level document object that may carry readable bytes.
type Object interface {
	// ID identifies the object for reporting ("obj 12", "stream 3").
	ID() string

	// RawBytes returns the object's decoded byte content. ok is false for
	// objects without readable content or whose content cannot be decoded.
	RawBytes() (data []byte, ok bool)
}
