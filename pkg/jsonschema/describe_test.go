package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

func render(t *testing.T, n schemanode.Node, depth int) string {
	t.Helper()
	data, err := json.Marshal(Describe(n, depth))
	require.NoError(t, err)
	return string(data)
}

func TestDescribe_Object(t *testing.T) {
	n := schemanode.NewObject(map[string]schemanode.Node{
		"name": schemanode.String(),
		"age":  schemanode.NewLeaf("integer"),
		"tags": schemanode.NewObject(nil).WithPattern("^t_", schemanode.String()),
	}, "object")

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"age": {"type": "integer"},
			"name": {"type": "string"},
			"tags": {"patternProperties": {"^t_": {"type": "string"}}}
		}
	}`, render(t, n, DefaultDepth))
}

func TestDescribe_PropertyOrderIsSorted(t *testing.T) {
	n := schemanode.NewObject(map[string]schemanode.Node{
		"b": schemanode.String(),
		"a": schemanode.String(),
		"c": schemanode.String(),
	})
	s := Describe(n, 1)

	var keys []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestDescribe_MultipleTypes(t *testing.T) {
	assert.JSONEq(t, `{"type": ["string", "null"]}`, render(t, schemanode.NewLeaf("null", "string"), 1))
}

func TestDescribe_Combinator(t *testing.T) {
	c := schemanode.OneOf(
		schemanode.NewObject(map[string]schemanode.Node{"a": schemanode.String()}),
		schemanode.NewObject(map[string]schemanode.Node{"b": schemanode.NewLeaf("number")}),
	)
	c.Own = schemanode.NewObject(map[string]schemanode.Node{"kind": schemanode.String()})

	assert.JSONEq(t, `{
		"anyOf": [
			{"properties": {"a": {"type": "string"}}},
			{"properties": {"b": {"type": "number"}}}
		],
		"properties": {"kind": {"type": "string"}}
	}`, render(t, c, DefaultDepth))
}

func TestDescribe_DepthBoundsRecursion(t *testing.T) {
	tree := schemanode.NewObject(map[string]schemanode.Node{"name": schemanode.String()}, "object")
	tree.Properties["child"] = tree

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"child": {"type": "object"},
			"name": {"type": "string"}
		}
	}`, render(t, tree, 1))
}

func TestDescribe_Nil(t *testing.T) {
	assert.Nil(t, Describe(nil, DefaultDepth))
}
