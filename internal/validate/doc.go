// Package validate implements forensic validation of scrub candidates.
//
// A candidate is accepted only on evidence of absence: independent
// checks inspect the document through two different readers, through
// its raw bytes, and through statistical anomaly detection, and the
// candidate passes only when every metadata-bearing check comes back
// empty. The structural-integrity check is reported alongside but never
// flips the verdict; it measures whether the scrub damaged the
// document, not whether metadata leaked.
//
// Design decision: Checks fail closed. A check that cannot run (parse
// error, unreadable file) counts as having found metadata, because a
// file we cannot inspect cannot be declared clean. This mirrors the
// acceptance rule: the burden of proof is on the candidate.
//
// Design decision: The validator coordinates checks through a small
// interface and a Register method rather than a fixed function list.
// Checks are independent by construction, so adding a detection
// technique means adding one implementation, not editing the
// coordinator.
package validate
