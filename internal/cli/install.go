package cli

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/manager"
	"github.com/spf13/cobra"
)

var (
	installForce  bool
	installLink   bool
	installAgents []string
	installScope  string
	installSubdir string
)

var installCmd = &cobra.Command{
	Use:   "install <path|git-url>",
	Short: "Install a skill into the canonical root",
	Long: `Copy a skill directory, or a skill from a git repository, into the canonical
root under its metadata name. With --link the skill is then linked into every
enabled agent.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false, "Replace an existing canonical copy")
	installCmd.Flags().BoolVar(&installLink, "link", false, "Link the skill into agents after installing")
	installCmd.Flags().StringSliceVar(&installAgents, "agent", nil, "Only link into these agents (with --link)")
	installCmd.Flags().StringVar(&installScope, "scope", "global", "Directory scope for --link: global or workspace")
	installCmd.Flags().StringVar(&installSubdir, "subdir", "", "Skill directory inside the source")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	scope, err := parseScope(installScope)
	if err != nil {
		return err
	}
	mgr, err := loadManager()
	if err != nil {
		return err
	}

	result, err := mgr.Install(args[0], manager.InstallOptions{
		Force:  installForce,
		Link:   installLink,
		Scope:  scope,
		Agents: installAgents,
		Subdir: installSubdir,
	})
	if result == nil {
		return err
	}

	okColor.Fprintf(cmd.OutOrStdout(), "✓ Installed %s to %s\n", result.Name, result.RepoPath)
	if result.Sync != nil {
		printSyncReport(cmd, result.Sync)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Run '%s sync %s' to link it into your agents.\n", rootCmd.Name(), result.Name)
	}
	return err
}
