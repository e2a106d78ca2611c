// Package scrub orchestrates the scrub-and-validate pipeline.
//
// The pipeline analyzes the original file, then tries each scrub
// strategy in order: produce a candidate in a temporary file, run the
// sanitizer over it, validate it forensically, and accept the first
// candidate every metadata check declares clean. A strategy failure or
// a dirty candidate moves on to the next strategy; when none succeeds
// the scrub fails rather than shipping a best-effort file.
//
// Design decision: The fallback loop is an explicit state machine
// rather than nested error handling. Every transition (strategy failed,
// candidate dirty, candidate accepted, strategies exhausted) is a named
// state visible in debug logs, so a scrub that took an unexpected path
// can be reconstructed from its log lines alone.
//
// Design decision: Candidates are written to temporary files and the
// output path is only written on acceptance. A failed scrub must never
// leave a half-scrubbed file where the caller expects a clean one.
package scrub
