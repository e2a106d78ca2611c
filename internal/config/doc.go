// Package config provides configuration structures and utilities for pdfscrub.
// It defines the main options for scrubbing PDF files, forensic validation
// thresholds, and report generation preferences.
package config
