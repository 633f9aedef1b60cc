package cli

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/manager"
	"github.com/spf13/cobra"
)

var (
	removeYes    bool
	removePurge  bool
	removeAgents []string
)

var removeCmd = &cobra.Command{
	Use:   "remove <skill>",
	Short: "Unlink a skill from agents",
	Long: `Remove the managed links of a skill. With --purge the canonical copy is
deleted too. Physical copies inside agent directories are never deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation prompt")
	removeCmd.Flags().BoolVar(&removePurge, "purge", false, "Also delete the canonical copy")
	removeCmd.Flags().StringSliceVar(&removeAgents, "agent", nil, "Only unlink from these agents")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	mgr, err := loadManager()
	if err != nil {
		return err
	}

	if !removeYes {
		question := fmt.Sprintf("Unlink %s from agents?", name)
		if removePurge {
			question = fmt.Sprintf("Unlink %s and delete its canonical copy?", name)
		}
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
			fmt.Fprintln(cmd.OutOrStdout(), "Removal cancelled.")
			return nil
		}
	}

	result, err := mgr.Remove(name, manager.RemoveOptions{
		Confirmed: true,
		Purge:     removePurge,
		Agents:    removeAgents,
	})
	if result == nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range result.Unlinked {
		okColor.Fprintf(out, "  ✓ unlinked %s\n", p)
	}
	if result.Purged != "" {
		okColor.Fprintf(out, "  ✓ deleted %s\n", result.Purged)
	}
	for _, p := range result.Kept {
		warnColor.Fprintf(out, "  - kept unmanaged copy %s\n", p)
	}
	return err
}
