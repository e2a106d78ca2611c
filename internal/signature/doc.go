// Package signature scans and scrubs raw document bytes for metadata
// left behind by structural rewrites.
//
// PDF writers do not always remove every byte of what they overwrite:
// incremental updates, orphaned objects, and slack space can all carry
// the original info dictionary after a structural scrub reports success.
// This package works below the document model, on the file bytes
// themselves, so nothing a parser skips over survives.
//
// Design decision: All scrubbing is length-preserving. Replaced bytes
// are overwritten with spaces instead of removed, so every cross-
// reference offset in the file stays valid and the document remains
// readable after the pass. Scoped scrubbing resolves the value span
// that follows a metadata key, tracking parenthesis depth so nested
// parentheses inside a value do not end the span early, and blanks only
// vendor tokens inside the span, leaving the rest of the value intact;
// an unterminated span extends to the end of the buffer.
package signature
