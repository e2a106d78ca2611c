// Package model defines the core data structures used throughout pdfscrub.
//
// This package contains the following main types:
//   - Finding: a single piece of identifying metadata located in a document
//   - EntropyReport: an anomalously random object flagged by the entropy sweep
//   - CheckResult: the outcome of one forensic validation check
//   - ForensicReport: the aggregate verdict for one file snapshot
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (sanitize, validate, scrub,
// report, database) need these types, so centralizing them prevents import
// cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
