// Package docmodel defines the capability contract between the scrub
// pipeline and the underlying PDF object-graph engine.
//
// The scrub, sanitize, strategy, and validate packages never talk to a PDF
// library directly. They depend on the Backend/Document/Dict interfaces in
// this package, and key names are passed as opaque strings ("Producer",
// "Metadata", ...). This keeps the core logic independent of any single
// library's object-identity or naming scheme.
//
// Two implementations exist:
//   - pdfcpudoc: the production backend built on github.com/pdfcpu/pdfcpu
//   - memdoc: a deterministic in-memory backend used to synthesize test
//     fixtures and to simulate failure modes
//
// Design decision: We expose Rebuild and RewritePages as backend
// capabilities rather than modelling cross-document page copies, because
// copying a page node between documents requires deep knowledge of the
// engine's object graph (indirect references, inherited attributes). Every
// real engine already ships a "write these pages through a fresh writer"
// operation, and the scrub strategies only need that much.
package docmodel
