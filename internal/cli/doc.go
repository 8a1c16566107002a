// Package cli parses command-line arguments into an app.Config and owns the
// ExitError type that maps failures to process exit codes.
package cli
