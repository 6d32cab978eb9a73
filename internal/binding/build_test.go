package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func lit(s string) *string { return &s }

func TestBuild(t *testing.T) {
	decls := []ClassDecl{
		{Name: "example.com/app.User", Literal: lit("schemas/user.json")},
		{Name: "example.com/app.Plain"},
		{Name: "example.com/app.Order", Literal: lit("schemas/order.json")},
		{Name: "example.com/app.User", Literal: lit("schemas/other.json")},
		{Name: "", Literal: lit("orphan.json")},
	}

	got := Build(decls)
	want := map[string]string{
		"example.com/app.User":  "schemas/user.json",
		"example.com/app.Order": "schemas/order.json",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	decls := []ClassDecl{
		{Name: "a.A", Literal: lit("a.json")},
		{Name: "a.B", Literal: lit("b.json")},
	}
	assert.Equal(t, Build(decls), Build(decls))
	assert.Empty(t, Build(nil))
	assert.NotNil(t, Build(nil))
}
