// Package cli implements the msgschema command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/logging"
	"github.com/afossey/message-schema-plugin/internal/workspace"
)

// ErrDiagnostics is returned when a checked path is invalid. The diagnostic
// itself has already been printed.
var ErrDiagnostics = errors.New("invalid field path")

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// Command is the msgschema command tree.
type Command struct {
	// The currently active command.
	*cobra.Command

	root *cobra.Command
}

func newRootCmd() *Command {
	cmd := &cobra.Command{
		Use:   "msgschema",
		Short: "msgschema checks message field paths against JSON Schemas.",
		Long: `msgschema indexes the //msgschema:file directives of a Go workspace and
checks field paths against the JSON Schema bound to each type.

A directive binds the type declared right after it:

	//msgschema:file "schemas/order.json"
	type Order struct{ ... }

Schema paths are looked up across the source roots in order; the first
root holding the file wins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: cmd, root: cmd}

	addGlobalFlags(cmd.PersistentFlags())

	for _, sub := range []*cobra.Command{
		newBindingsCmd(c),
		newCheckCmd(c),
		newSuggestCmd(c),
	} {
		cmd.AddCommand(sub)
	}
	return c
}

// New builds the command tree for args.
func New(args []string) *Command {
	c := newRootCmd()
	c.root.SetArgs(args)
	return c
}

// SetOutput directs both standard and error output of every command to w.
func (c *Command) SetOutput(w io.Writer) {
	c.root.SetOut(w)
	c.root.SetErr(w)
}

// Run executes the command selected by the arguments.
func (c *Command) Run(ctx context.Context) error {
	return c.root.ExecuteContext(ctx)
}

// Main runs the msgschema tool and returns the code for passing to os.Exit.
func Main(ctx context.Context) int {
	err := New(os.Args[1:]).Run(ctx)
	if err != nil {
		if !errors.Is(err, ErrDiagnostics) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

// loadConfig applies the persistent flags to the environment configuration.
func (c *Command) loadConfig() *config.Config {
	cfg := config.Load()
	cfg.RefreshInterval = 0
	if flagWorkspace.Changed(c) {
		cfg.WorkspaceDir = flagWorkspace.String(c)
	}
	if flagRoots.Changed(c) {
		cfg.SourceRoots = flagRoots.StringSlice(c)
	}
	if flagIndexFile.Changed(c) {
		cfg.IndexFile = flagIndexFile.String(c)
	}
	if flagLogLevel.Changed(c) {
		cfg.LogLevel = flagLogLevel.String(c)
	}
	return cfg
}

// openWorkspace indexes the workspace selected by the flags. Logs go to the
// command's error output and default to warnings only.
func (c *Command) openWorkspace() (*workspace.Workspace, error) {
	cfg := c.loadConfig()
	logCfg := logging.FromConfig(cfg)
	if !flagLogLevel.Changed(c) && os.Getenv("LOG_LEVEL") == "" {
		logCfg.Level = "warn"
	}
	slog.SetDefault(slog.New(logging.NewHandler(c.ErrOrStderr(), logCfg)))

	ws, err := workspace.Open(c.Context(), cfg)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (c *Command) scope(ws *workspace.Workspace) (binding.Scope, error) {
	dir := flagScope.String(c)
	if dir == "" || dir == "." {
		return binding.AllScope, nil
	}
	key, err := ws.Indexer.Key(dir)
	if err != nil {
		return nil, err
	}
	return binding.DirScope(filepath.FromSlash(key)), nil
}
