// Package scanner turns the agent skill directories and the canonical root
// into an inventory.ScanResult.
//
// A scan walks each enabled agent's global root and then its workspace
// root, looking only at immediate children. Every child is classified,
// described (from the cache when its fingerprint still matches, otherwise by
// parsing SKILL.md) and merged into the skill sharing its metadata name. The
// canonical root is walked last so canonical copies mark their skills as
// managed even when no agent links to them.
//
// Scan never fails: per-entry problems are collected on the result.
package scanner
