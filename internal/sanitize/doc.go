// Package sanitize removes identifying metadata from a document's
// object graph.
//
// The sanitizer is the deep-clean stage that runs after a scrub
// strategy has produced a candidate: strategies rewrite file structure,
// the sanitizer walks what remains and strips metadata the rewrite
// carried over. All operations are idempotent, so running the sanitizer
// on an already-clean document changes nothing.
//
// Design decision: Field failures are recorded, not fatal. Some engines
// expose read-only fields, and aborting the whole pass on the first one
// would leave every later field dirty. Each operation counts the fields
// it changed and the fields it had to skip, logs each skip, and the
// caller decides what a non-zero skip count means. Only structural
// failures (an unreadable page tree) abort a pass.
package sanitize
