package cli

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/manager"
	"github.com/spf13/cobra"
)

var (
	syncAgents []string
	syncScope  string
	syncForce  bool
	syncJSON   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [skill...]",
	Short: "Link canonical skills into agent directories",
	Long: `Create a symlink to each canonical skill in every enabled agent's skill
directory. Existing physical copies are never replaced; broken and foreign
links are replaced only with --force.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncAgents, "agent", nil, "Only link into these agents")
	syncCmd.Flags().StringVar(&syncScope, "scope", "global", "Directory scope: global or workspace")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Replace broken and foreign links")
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	scope, err := parseScope(syncScope)
	if err != nil {
		return err
	}
	mgr, err := loadManager()
	if err != nil {
		return err
	}

	report, err := mgr.Sync(manager.SyncOptions{
		Names:  args,
		Agents: syncAgents,
		Scope:  scope,
		Force:  syncForce,
	})
	if report == nil {
		return err
	}

	if syncJSON {
		if jErr := printJSON(cmd.OutOrStdout(), report); jErr != nil {
			return jErr
		}
		return err
	}

	printSyncReport(cmd, report)
	return err
}

func printSyncReport(cmd *cobra.Command, report *manager.SyncReport) {
	out := cmd.OutOrStdout()
	for _, a := range report.Actions {
		switch a.Action {
		case manager.ActionLinked, manager.ActionRelinked:
			okColor.Fprintf(out, "  ✓ %s -> %s: %s\n", a.Skill, a.AgentID, a.Action)
		case manager.ActionSkipped:
			warnColor.Fprintf(out, "  - %s -> %s: skipped (%s)\n", a.Skill, a.AgentID, a.Reason)
		case manager.ActionUnchanged:
		}
	}
	fmt.Fprintf(out, "%d linked, %d relinked, %d unchanged, %d skipped\n",
		report.Count(manager.ActionLinked), report.Count(manager.ActionRelinked),
		report.Count(manager.ActionUnchanged), report.Count(manager.ActionSkipped))
}
