package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afossey/message-schema-plugin/internal/config"
)

func newCheckCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check CLASS PATH",
		Short: "check that a field path designates a string",
		Long: `Check validates PATH, a JSON Pointer, against the schema bound to CLASS.

CLASS is a qualified type name such as example.com/shop/orders.Order.
The command exits with status 1 when the path names an unknown property or
a property that is not a string. Types without a usable binding are not
checked.
`,
		Args: cobra.ExactArgs(2),
		RunE: mkRunE(c, runCheck),
	}
	addOutputFlags(cmd.Flags())
	addScopeFlags(cmd.Flags())
	return cmd
}

func runCheck(cmd *Command, args []string) error {
	ws, err := cmd.openWorkspace()
	if err != nil {
		return err
	}
	scope, err := cmd.scope(ws)
	if err != nil {
		return err
	}
	pc := ws.CheckPath(args[0], args[1], scope)

	out := cmd.OutOrStdout()
	if flagJSON.Bool(cmd) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pc); err != nil {
			return err
		}
	} else {
		switch {
		case !pc.Checked:
			fmt.Fprintf(out, "%s: not checked, no usable schema binding\n", pc.ClassName)
		case pc.Valid:
			fmt.Fprintf(out, "%s %s: ok\n", pc.ClassName, pc.Path)
		default:
			fmt.Fprintf(out, "%s %s: %s\n", pc.ClassName, pc.Path, pc.Diagnostic.Message)
		}
	}
	if !pc.Valid {
		return ErrDiagnostics
	}
	return nil
}

func newSuggestCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest CLASS PATH",
		Short: "list completions for the last segment of a field path",
		Long: `Suggest prints the property names available at the parent of PATH's last
segment in the schema bound to CLASS, one per line.
`,
		Args: cobra.ExactArgs(2),
		RunE: mkRunE(c, runSuggest),
	}
	addOutputFlags(cmd.Flags())
	addScopeFlags(cmd.Flags())
	return cmd
}

func runSuggest(cmd *Command, args []string) error {
	ws, err := cmd.openWorkspace()
	if err != nil {
		return err
	}
	scope, err := cmd.scope(ws)
	if err != nil {
		return err
	}
	suggestions := ws.Checker.Suggest(args[0], args[1], scope)
	limit := ws.Config.MaxSuggestions
	if limit <= 0 {
		limit = config.DefaultMaxSuggestionsValue
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	out := cmd.OutOrStdout()
	if flagJSON.Bool(cmd) {
		return json.NewEncoder(out).Encode(suggestions)
	}
	for _, s := range suggestions {
		fmt.Fprintln(out, s)
	}
	return nil
}
