// Package skillerr defines the coded error type shared by the scanner, cache
// and mutator. Each error carries a Kind so callers can decide between
// "recorded and skipped", "rolled back and reported" and "caller must fix".
package skillerr
