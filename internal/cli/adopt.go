package cli

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/manager"
	"github.com/spf13/cobra"
)

var (
	adoptFrom  string
	adoptScope string
	adoptForce bool
)

var adoptCmd = &cobra.Command{
	Use:   "adopt <skill>",
	Short: "Move an unmanaged copy into the canonical root",
	Long: `Move a physical skill directory found in an agent into the canonical root and
leave a managed link in its place. When several agents hold their own copy,
pick the authoritative one with --from <agent|path>.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdopt,
}

func init() {
	adoptCmd.Flags().StringVar(&adoptFrom, "from", "", "Agent id or path of the copy to adopt")
	adoptCmd.Flags().StringVar(&adoptScope, "scope", "", "Narrow --from to global or workspace")
	adoptCmd.Flags().BoolVar(&adoptForce, "force", false, "Replace an existing canonical copy")
	rootCmd.AddCommand(adoptCmd)
}

func runAdopt(cmd *cobra.Command, args []string) error {
	var scope inventory.Scope
	if adoptScope != "" {
		s, err := parseScope(adoptScope)
		if err != nil {
			return err
		}
		scope = s
	}
	mgr, err := loadManager()
	if err != nil {
		return err
	}

	result, err := mgr.Adopt(args[0], manager.AdoptOptions{From: adoptFrom, Scope: scope, Force: adoptForce})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	okColor.Fprintf(out, "✓ Adopted %s from %s\n", result.Name, result.From)
	fmt.Fprintf(out, "  canonical copy: %s\n", result.RepoPath)
	for _, p := range result.Remaining {
		warnColor.Fprintf(out, "  unmanaged copy left in place: %s\n", p)
	}
	return nil
}
