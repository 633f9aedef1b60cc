package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills across every agent",
	Long:  `Scan the canonical root and every enabled agent directory and list the skills found.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	mgr, err := loadManager()
	if err != nil {
		return err
	}
	res := mgr.List()

	if listJSON {
		return printJSON(cmd.OutOrStdout(), &inventory.ScanResult{
			Skills:      res.Sorted(),
			ParseErrors: res.ParseErrors,
			BrokenLinks: res.BrokenLinks,
		})
	}

	out := cmd.OutOrStdout()
	if len(res.Skills) == 0 {
		fmt.Fprintln(out, "No skills found.")
		printScanProblems(cmd.ErrOrStderr(), res)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tAGENTS\tVERSION")
	for _, s := range res.Sorted() {
		state := "unmanaged"
		if s.IsManaged {
			state = "managed"
		}
		version := s.Metadata.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name(), state, agentList(s), version)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	printScanProblems(cmd.ErrOrStderr(), res)
	return nil
}

// agentList returns the distinct agent ids of a skill's installations.
func agentList(s *inventory.Skill) string {
	var ids []string
	seen := make(map[string]bool)
	for _, inst := range s.Installations {
		if !seen[inst.AgentID] {
			seen[inst.AgentID] = true
			ids = append(ids, inst.AgentID)
		}
	}
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ",")
}
