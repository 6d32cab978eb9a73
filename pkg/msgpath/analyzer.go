package msgpath

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/tools/go/analysis"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/workspace"
	"github.com/afossey/message-schema-plugin/pkg/message"
	"github.com/afossey/message-schema-plugin/pkg/resolve"
)

// Analyzer checks call sites against the workspace named by its flags:
//
//	-workspace  directory indexed for schema directives (default ".")
//	-roots      comma-separated schema source roots (default: the workspace)
//	-message    qualified name of the generic message type
//
// The workspace is indexed once per process.
var Analyzer = NewAnalyzer(nil)

var (
	flagWorkspace string
	flagRoots     string
	flagMessage   string

	loadOnce  sync.Once
	loaded    Validator
	loadError error
)

func init() {
	Analyzer.Flags.StringVar(&flagWorkspace, "workspace", config.DefaultWorkspaceDir, "workspace directory")
	Analyzer.Flags.StringVar(&flagRoots, "roots", "", "comma-separated schema source roots")
	Analyzer.Flags.StringVar(&flagMessage, "message", message.MessageTypeName, "generic message type")
	Analyzer.Run = runFromFlags
}

func runFromFlags(pass *analysis.Pass) (any, error) {
	loadOnce.Do(func() {
		loaded, loadError = WorkspaceValidator(context.Background(), flagConfig())
	})
	if loadError != nil {
		return nil, loadError
	}
	return nil, run(pass, loaded, flagMessage)
}

func flagConfig() *config.Config {
	cfg := config.Load()
	cfg.WorkspaceDir = flagWorkspace
	cfg.SourceRoots = []string{flagWorkspace}
	if flagRoots != "" {
		cfg.SourceRoots = strings.Split(flagRoots, ",")
	}
	// A vet run is a one-shot process.
	cfg.RefreshInterval = 0
	return cfg
}

// WorkspaceValidator indexes the workspace of cfg and validates against all
// of its bindings.
func WorkspaceValidator(ctx context.Context, cfg *config.Config) (Validator, error) {
	ws, err := workspace.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return ValidatorFunc(func(className, literal string) *resolve.Diagnostic {
		return ws.Checker.Validate(className, literal, binding.AllScope)
	}), nil
}
