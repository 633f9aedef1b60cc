// Package manager implements the skill workflows behind the CLI: listing and
// status, installing into the canonical root, adopting unmanaged copies,
// linking canonical skills into agents and removing them again.
//
// Every workflow starts from a fresh scan, changes the filesystem only
// through the mutator and platform helpers, and invalidates the cache for
// each path it touched.
package manager
