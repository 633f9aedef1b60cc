// Package agents is the registry of consuming agents skillkit knows how to
// serve, together with the directories each one reads skills from.
//
// Global directories are relative to the user's home; workspace directories
// are relative to the project root. Users can add their own agents through
// configuration; those are resolved by the config package, not here.
package agents
