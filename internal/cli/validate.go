package cli

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/metadata"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check a skill directory's SKILL.md",
	Long: `Parse the skill descriptor, lint its frontmatter against the schema and list
optional fields that are missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := args[0]
	out := cmd.OutOrStdout()

	meta, err := metadata.Parse(dir)
	if err != nil {
		return err
	}

	lint, err := metadata.LintDir(dir)
	if err != nil {
		return err
	}
	for _, issue := range lint.Issues {
		errorColor.Fprintf(out, "  ✗ %s: %s\n", issue.Path, issue.Message)
	}
	for _, note := range metadata.Advisories(meta) {
		warnColor.Fprintf(out, "  - %s\n", note)
	}
	if !lint.Valid {
		return skillerr.Newf(skillerr.KindValidation, "%s has %d schema issue(s)", metadata.DescriptorPath(dir), len(lint.Issues))
	}

	okColor.Fprintf(out, "✓ %s is valid\n", meta.Name)
	fmt.Fprintf(out, "  %s\n", meta.Description)
	return nil
}
