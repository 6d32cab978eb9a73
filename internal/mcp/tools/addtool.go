package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking its output type with
// CheckOutputSchema.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics unless the zero value of T validates against the
// schema the MCP SDK infers for T.
//
// json.Marshal writes nil slices as null while the inferred schema says
// "array"; tag such fields omitzero or initialize them. json.RawMessage
// fields are rejected too: the schema sees []byte, the wire sees any JSON.
// Use any plus types.ToAny instead.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessageFields(rt, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf("AddTool %q: output type %s has json.RawMessage at %s; use any and types.ToAny",
			toolName, rt, strings.Join(paths, ", ")))
	}

	// Inference failures are reported by the SDK itself.
	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}
	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}
	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf("AddTool %q: zero value of %s fails its output schema: %v (json: %s); tag nil slices omitzero",
			toolName, rt, err, data))
	}
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

func rawMessageFields(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, rawMessageFields(f.Type, append(path, f.Name), visiting)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = rawMessageFields(t.Elem(), append(path, "[]"), visiting)
	case reflect.Map:
		found = rawMessageFields(t.Elem(), append(path, "[value]"), visiting)
	}
	return found
}
