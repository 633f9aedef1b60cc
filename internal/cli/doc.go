// Package cli implements the skillkit command tree with cobra.
//
// Commands load configuration once, build a manager.Manager from it and
// render the manager's results. Human output goes to the command's stdout;
// JSON output is available where scripts are likely to consume it.
package cli
