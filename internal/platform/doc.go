// Package platform isolates every symlink-specific filesystem call behind a
// small set of primitives: probing whether a path is a link, reading its raw
// target, resolving it canonically, and deciding whether a resolved target
// lives inside the managed canonical root. The rest of the module only sees
// the resulting InstallationClass.
//
// Link handling assumes Unix semantics.
package platform
