package cli

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report conflicts and link problems",
	Long: `Scan every root and report duplicate copies, broken or foreign links, and
skills that mix a physical copy with managed links. Exits non-zero when an
error-class conflict is found.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr, err := loadManager()
	if err != nil {
		return err
	}
	report := mgr.Status()

	if statusJSON {
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printStatus(cmd, report.Conflicts, report.Warnings)
		printScanProblems(cmd.OutOrStdout(), report.Result)
	}

	if report.HasErrors() {
		return skillerr.New(skillerr.KindConflict, "unresolved conflicts found")
	}
	return nil
}

func printStatus(cmd *cobra.Command, conflicts []conflict.Conflict, warnings []conflict.Warning) {
	out := cmd.OutOrStdout()
	if len(conflicts) == 0 && len(warnings) == 0 {
		okColor.Fprintln(out, "✓ No conflicts.")
		return
	}

	for _, c := range conflicts {
		sev := c.Type.Severity()
		severityColor(sev).Fprintf(out, "[%s] %s: %s\n", sev, c.SkillName, c.Type)
		for _, loc := range c.Locations {
			fmt.Fprintf(out, "    %s (%s) %s\n", loc.AgentID, loc.Scope, loc.Path)
		}
	}
	for _, w := range warnings {
		name := w.SkillName
		if name == "" {
			name = w.Location.Path
		}
		warnColor.Fprintf(out, "[warning] %s: %s\n", name, w.Kind)
		fmt.Fprintf(out, "    %s (%s) %s: %s\n", w.Location.AgentID, w.Location.Scope, w.Location.Path, w.Message)
	}
}
