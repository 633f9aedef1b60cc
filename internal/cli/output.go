package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/fatih/color"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	infoColor  = color.New(color.FgCyan)
	okColor    = color.New(color.FgGreen)
)

func severityColor(s conflict.Severity) *color.Color {
	switch s {
	case conflict.SeverityError:
		return errorColor
	case conflict.SeverityWarning:
		return warnColor
	default:
		return infoColor
	}
}

// printError reports err with its kind and path when it carries them.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if p := skillerr.PathOf(err); p != "" && !strings.Contains(msg, p) {
		msg += " (" + p + ")"
	}
	errorColor.Fprintf(w, "Error: %s\n", msg)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printScanProblems lists parse failures and broken links under a result.
func printScanProblems(w io.Writer, res *inventory.ScanResult) {
	for _, pe := range res.ParseErrors {
		agent := pe.AgentID
		if agent == "" {
			agent = "canonical"
		}
		warnColor.Fprintf(w, "  warning: [%s] %s: %s\n", agent, pe.Path, pe.Reason)
	}
	for _, bl := range res.BrokenLinks {
		warnColor.Fprintf(w, "  warning: [%s] broken link %s -> %s\n", bl.AgentID, bl.Path, bl.Target)
	}
}

// confirm asks a yes/no question; anything but y or yes means no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "? %s (y/N) ", question)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func parseScope(s string) (inventory.Scope, error) {
	scope, ok := inventory.ParseScope(s)
	if !ok {
		return "", skillerr.Newf(skillerr.KindValidation, "invalid scope %q (want global or workspace)", s)
	}
	return scope, nil
}
