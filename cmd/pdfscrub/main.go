// Package main provides the entry point for the pdfscrub CLI.
//
// pdfscrub removes identifying metadata from PDF files and forensically
// verifies the result. It strips document information dictionaries, XMP
// packets, annotation attribution, and vendor traces, then validates the
// output with independent checks before accepting it.
//
// Usage:
//
//	pdfscrub scrub <input.pdf> [output.pdf]
//	pdfscrub validate <file.pdf>
//
// See --help for all available options.
package main

// main is the entry point for pdfscrub.
func main() {
	Execute()
}
