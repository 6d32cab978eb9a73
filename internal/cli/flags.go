package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Common flags
const (
	flagWorkspace flagName = "workspace"
	flagRoots     flagName = "roots"
	flagIndexFile flagName = "index-file"
	flagLogLevel  flagName = "log-level"
	flagJSON      flagName = "json"
	flagScope     flagName = "scope"
)

func addGlobalFlags(f *pflag.FlagSet) {
	f.StringP(string(flagWorkspace), "w", "",
		"workspace directory (default $MSGSCHEMA_WORKSPACE or .)")
	f.StringSlice(string(flagRoots), nil,
		"comma-separated source roots, relative to the workspace")
	f.String(string(flagIndexFile), "",
		"binding snapshot to load and update")
	f.String(string(flagLogLevel), "", "log level (debug, info, warn, error)")
}

func addOutputFlags(f *pflag.FlagSet) {
	f.Bool(string(flagJSON), false, "print results as JSON")
}

func addScopeFlags(f *pflag.FlagSet) {
	f.String(string(flagScope), "",
		"only consult bindings declared under this directory")
}

type flagName string

// ensureAdded panics when a command reads a flag it never registered.
func (f flagName) ensureAdded(cmd *Command) {
	if cmd.Flags().Lookup(string(f)) == nil {
		panic(fmt.Sprintf("Cmd %q uses flag %q without adding it", cmd.Name(), f))
	}
}

func (f flagName) Changed(cmd *Command) bool {
	f.ensureAdded(cmd)
	return cmd.Flags().Changed(string(f))
}

func (f flagName) Bool(cmd *Command) bool {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetString(string(f))
	return v
}

func (f flagName) StringSlice(cmd *Command) []string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetStringSlice(string(f))
	return v
}
