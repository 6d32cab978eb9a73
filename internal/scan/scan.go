// Package scan finds schema directives on Go type declarations.
//
// A type is bound to a schema file by a directive in its doc comment:
//
//	//msgschema:file "schemas/user.json"
//	type User struct{ ... }
//
// Only a single Go string literal is accepted as the argument. Anything else
// (concatenations, constants, bare words) is treated as absent.
package scan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/afossey/message-schema-plugin/internal/binding"
)

// Directive is the comment directive naming a type's schema file.
const Directive = "msgschema:file"

// ScanSource parses one Go source file and reports its type declarations.
func ScanSource(filename string, src []byte, pkgPath string) ([]binding.ClassDecl, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return ScanFile(file, pkgPath), nil
}

// ScanFile reports every type declared in file, including types declared in
// function bodies, which are named after the enclosing function
// ("pkg.Func.Type", or "pkg.Recv.Method.Type" for methods).
func ScanFile(file *ast.File, pkgPath string) []binding.ClassDecl {
	if pkgPath == "" {
		pkgPath = file.Name.Name
	}
	var decls []binding.ClassDecl
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			decls = append(decls, typeDecls(d, pkgPath)...)
		case *ast.FuncDecl:
			if d.Body == nil {
				continue
			}
			prefix := pkgPath + "." + FuncName(d)
			// Types inside closures are named after the outer function.
			ast.Inspect(d.Body, func(n ast.Node) bool {
				if gd, ok := n.(*ast.GenDecl); ok {
					decls = append(decls, typeDecls(gd, prefix)...)
				}
				return true
			})
		}
	}
	return decls
}

func typeDecls(gd *ast.GenDecl, prefix string) []binding.ClassDecl {
	if gd.Tok != token.TYPE {
		return nil
	}
	var out []binding.ClassDecl
	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		doc := ts.Doc
		if doc == nil && len(gd.Specs) == 1 {
			doc = gd.Doc
		}
		out = append(out, binding.ClassDecl{
			Name:    prefix + "." + ts.Name.Name,
			Literal: directiveArg(doc),
		})
	}
	return out
}

// FuncName names fd the way local types are qualified: "Func" or
// "Recv.Method".
func FuncName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}
	return recvName(fd.Recv.List[0].Type) + "." + fd.Name.Name
}

func recvName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return recvName(e.X)
	case *ast.IndexExpr:
		return recvName(e.X)
	case *ast.IndexListExpr:
		return recvName(e.X)
	case *ast.Ident:
		return e.Name
	default:
		return "_"
	}
}

// directiveArg returns the literal argument of the first schema directive in
// doc, or nil.
func directiveArg(doc *ast.CommentGroup) *string {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, "//"+Directive)
		if !ok {
			continue
		}
		if text != "" && text[0] != ' ' && text[0] != '\t' {
			// a longer directive name such as msgschema:filex
			continue
		}
		return literalValue(strings.TrimSpace(text))
	}
	return nil
}

// literalValue evaluates arg only if it is a single string literal.
func literalValue(arg string) *string {
	if arg == "" {
		return nil
	}
	expr, err := parser.ParseExpr(arg)
	if err != nil {
		return nil
	}
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil
	}
	v, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil
	}
	return &v
}
