// Package entropy measures the randomness of object content to flag
// hidden payloads.
//
// Shannon entropy over the byte distribution is a cheap, reliable signal
// for compressed or encrypted blobs hiding inside a document: ordinary
// text and drawing operators sit well below 6 bits per byte, while
// encrypted payloads approach the 8-bit ceiling.
//
// Design decision: The analyzer flags content only above a configurable
// threshold (default 7.5 bits per byte) and above a minimum length
// (default 100 bytes). Short buffers produce meaningless entropy values
// because the byte histogram is too sparse, and legitimately compressed
// streams (Flate images) are measured on their decoded form by callers,
// so the threshold stays tight without drowning reports in false
// positives.
package entropy
