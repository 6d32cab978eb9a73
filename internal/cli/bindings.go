package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBindingsCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "list the schema bound to each type",
		Long: `Bindings prints every type bound by a //msgschema:file directive with the
schema path it names. Types bound to more than one schema are marked
conflicting; their paths are never checked.
`,
		Args: cobra.NoArgs,
		RunE: mkRunE(c, runBindings),
	}
	addOutputFlags(cmd.Flags())
	addScopeFlags(cmd.Flags())
	return cmd
}

func runBindings(cmd *Command, args []string) error {
	ws, err := cmd.openWorkspace()
	if err != nil {
		return err
	}
	scope, err := cmd.scope(ws)
	if err != nil {
		return err
	}
	infos := ws.Bindings(scope)

	if flagJSON.Bool(cmd) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, b := range infos {
		if b.Conflicting {
			fmt.Fprintf(w, "%s\t%s\t(conflicting)\n", b.ClassName, b.SchemaPath)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", b.ClassName, b.SchemaPath)
	}
	return w.Flush()
}
