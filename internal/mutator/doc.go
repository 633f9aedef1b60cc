// Package mutator performs the destructive filesystem operations behind
// install, adopt and remove: copying a skill tree, moving it, and deleting
// it.
//
// Each operation either completes or leaves the filesystem as it found it.
// CopyTree records every path it creates and removes them in reverse order
// on failure. MoveTree prefers a single rename and, across filesystems,
// falls back to backup, copy and restore. Backups are named
// <dest>.skillkit-backup-<uuid> so a human can recover them if the process
// dies mid-move.
package mutator
