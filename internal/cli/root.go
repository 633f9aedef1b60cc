package cli

import (
	"os"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/config"
	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/manager"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbosity    int
	noCache      bool
	configFile   string
	workspaceDir string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps agent skills in one canonical directory and links them into
every agent that should see them (Claude Code, Codex, Cursor, Gemini, OpenCode,
Copilot and any agent you configure).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(verbosity)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Ignore the scan cache and re-read every descriptor")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "", "Workspace root (default: current directory)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func loadSettings() (*config.Settings, error) {
	return config.Load(config.Options{
		ConfigFile: configFile,
		Workspace:  workspaceDir,
		NoCache:    noCache,
	})
}

func loadManager() (*manager.Manager, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return manager.New(s, manager.WithLogger(logging.GetLogger("manager")))
}
