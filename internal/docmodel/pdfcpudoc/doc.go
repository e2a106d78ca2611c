// Package pdfcpudoc implements the document model on top of the pdfcpu
// engine.
//
// This is the production backend: it parses real PDF files, exposes
// their object graph for sanitization, and writes the mutated graph
// back to disk. The whole-file operations map onto pdfcpu primitives:
// Rebuild merges the input into a brand-new file so no trailer or
// cross-reference history survives, and RewritePages trims the full
// page range into a fresh writer.
//
// Design decision: The backend always parses with relaxed validation.
// Files arriving for scrubbing are frequently damaged or produced by
// sloppy writers, and rejecting them on strict conformance grounds
// would leave their metadata in place. Relaxed parsing recovers what
// strict mode refuses, and the forensic validator judges the result
// afterwards either way.
package pdfcpudoc
