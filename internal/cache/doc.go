// Package cache persists what the scanner learned about each skill directory
// so later scans can skip re-parsing descriptors that have not changed.
//
// An entry is trusted only while the live descriptor's (mtime, size) pair
// matches the recorded one. mtime has whole-second resolution, so a rewrite
// that keeps the size and lands in the same second goes unnoticed; the
// content hash is recorded but not consulted on reads.
//
// The store is a single JSON file written through a sibling temp file and a
// rename. Any load problem yields an empty cache and any write problem is
// swallowed: the cache is advisory and must never block a scan.
package cache
