// Package types provides shared output types for message-schema-plugin.
// These types are used by the MCP tools and the CLI and are designed for
// external consumption.
package types

import (
	"encoding/json"

	"github.com/afossey/message-schema-plugin/pkg/resolve"
)

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PathCheck is the result of checking one field path for one type.
type PathCheck struct {
	ClassName  string              `json:"class_name"`
	Path       string              `json:"path"`
	Checked    bool                `json:"checked"` // false when no schema could be resolved
	Valid      bool                `json:"valid"`
	SchemaPath string              `json:"schema_path,omitempty"`
	Diagnostic *resolve.Diagnostic `json:"diagnostic,omitempty"`
}

// BindingInfo is one declared type-to-schema binding.
type BindingInfo struct {
	ClassName   string `json:"class_name"`
	SchemaPath  string `json:"schema_path"`
	Conflicting bool   `json:"conflicting,omitempty"` // the type is bound to several schemas
}

// MarkConflicts sets Conflicting on every entry whose class appears more
// than once.
func MarkConflicts(infos []BindingInfo) []BindingInfo {
	count := make(map[string]int, len(infos))
	for _, b := range infos {
		count[b.ClassName]++
	}
	for i := range infos {
		infos[i].Conflicting = count[infos[i].ClassName] > 1
	}
	return infos
}

// ResourceRef points to an MCP resource.
type ResourceRef struct {
	URI  string `json:"uri"`
	MIME string `json:"mime"`
	Hint string `json:"hint,omitempty"`
}
