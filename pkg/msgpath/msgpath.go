// Package msgpath defines an Analyzer that checks the field paths passed to
// Message[T].GetString against the JSON Schema bound to T.
//
// A call is checked when it has exactly one argument which is a plain string
// literal and the receiver's static type, pointer dereferenced, is an
// instantiation of the message type. The type argument is named the way the
// binding index names declarations: "importpath.Type", or
// "importpath.Func.Type" for types declared inside a function.
package msgpath

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/afossey/message-schema-plugin/internal/scan"
	"github.com/afossey/message-schema-plugin/pkg/message"
	"github.com/afossey/message-schema-plugin/pkg/resolve"
)

const doc = `check JSON Pointer literals passed to Message[T].GetString

The literal must designate a string-typed location in the schema bound to T
with a //msgschema:file directive. Types without a resolvable schema are not
checked.`

// Validator checks one literal for one bound type.
type Validator interface {
	ValidatePath(className, literal string) *resolve.Diagnostic
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(className, literal string) *resolve.Diagnostic

// ValidatePath calls f.
func (f ValidatorFunc) ValidatePath(className, literal string) *resolve.Diagnostic {
	return f(className, literal)
}

// Option configures an Analyzer built by NewAnalyzer.
type Option func(*options)

type options struct {
	messageType string
}

// WithMessageType sets the qualified name of the generic message type.
func WithMessageType(name string) Option {
	return func(o *options) { o.messageType = name }
}

// NewAnalyzer returns an Analyzer reporting the diagnostics of v.
func NewAnalyzer(v Validator, opts ...Option) *analysis.Analyzer {
	o := options{messageType: message.MessageTypeName}
	for _, opt := range opts {
		opt(&o)
	}
	return &analysis.Analyzer{
		Name:     "msgpath",
		Doc:      doc,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run: func(pass *analysis.Pass) (any, error) {
			return nil, run(pass, v, o.messageType)
		},
	}
}

// CallSite is one checked GetString call.
type CallSite struct {
	ClassName string
	Literal   string
	Lit       *ast.BasicLit
}

func run(pass *analysis.Pass, v Validator, messageType string) error {
	for _, site := range CallSites(pass, messageType) {
		d := v.ValidatePath(site.ClassName, site.Literal)
		if d == nil {
			continue
		}
		pass.Report(analysis.Diagnostic{
			Pos:      site.Lit.Pos(),
			End:      site.Lit.End(),
			Category: string(d.Kind),
			Message:  d.Message,
		})
	}
	return nil
}

// CallSites lists the checkable GetString calls of the package.
func CallSites(pass *analysis.Pass, messageType string) []CallSite {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	var sites []CallSite
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != message.GetStringMethod || len(call.Args) != 1 {
			return
		}
		lit, ok := call.Args[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return
		}
		if _, isMethod := pass.TypesInfo.Selections[sel]; !isMethod {
			return
		}
		arg := messageTypeArg(pass.TypesInfo.TypeOf(sel.X), messageType)
		if arg == nil {
			return
		}
		className := qualifiedName(pass, arg)
		if className == "" {
			return
		}
		value, err := strconv.Unquote(lit.Value)
		if err != nil {
			return
		}
		sites = append(sites, CallSite{ClassName: className, Literal: value, Lit: lit})
	})
	return sites
}

// messageTypeArg returns the type argument of t when t, or the type it
// points to, instantiates messageType.
func messageTypeArg(t types.Type, messageType string) *types.Named {
	if t == nil {
		return nil
	}
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.TypeArgs().Len() != 1 {
		return nil
	}
	obj := named.Origin().Obj()
	if obj.Pkg() == nil || obj.Pkg().Path()+"."+obj.Name() != messageType {
		return nil
	}
	arg, ok := types.Unalias(named.TypeArgs().At(0)).(*types.Named)
	if !ok {
		return nil
	}
	return arg
}

// qualifiedName names a declared type. Function-local types are only
// nameable within the package being analyzed.
func qualifiedName(pass *analysis.Pass, named *types.Named) string {
	obj := named.Origin().Obj()
	pkg := obj.Pkg()
	if pkg == nil {
		return ""
	}
	if obj.Parent() == pkg.Scope() {
		return pkg.Path() + "." + obj.Name()
	}
	if pkg != pass.Pkg {
		return ""
	}
	for _, f := range pass.Files {
		if obj.Pos() < f.Pos() || obj.Pos() >= f.End() {
			continue
		}
		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if ok && fd.Body != nil && fd.Pos() <= obj.Pos() && obj.Pos() < fd.End() {
				return pkg.Path() + "." + scan.FuncName(fd) + "." + obj.Name()
			}
		}
	}
	return ""
}
