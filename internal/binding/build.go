// Package binding maps fully qualified type names to the schema file that
// validates instances of the message type they represent.
package binding

// ClassDecl is one type declaration reported by a source scan. Literal is nil
// when the declaration carries no schema directive or its argument is not a
// plain string literal.
type ClassDecl struct {
	Name    string
	Literal *string
}

// Binding associates a type with a schema path.
type Binding struct {
	ClassName  string `json:"class_name"`
	SchemaPath string `json:"schema_path"`
}

// Build derives the per-file mapping from the declarations of one file.
// Declarations without a literal are skipped. If a name repeats, the first
// declaration wins, so equal input always yields an equal mapping.
func Build(decls []ClassDecl) map[string]string {
	out := make(map[string]string)
	for _, d := range decls {
		if d.Name == "" || d.Literal == nil {
			continue
		}
		if _, dup := out[d.Name]; dup {
			continue
		}
		out[d.Name] = *d.Literal
	}
	return out
}
