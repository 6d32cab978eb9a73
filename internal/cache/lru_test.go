package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

func TestSchemaCache(t *testing.T) {
	c, err := NewSchemaCache(2)
	require.NoError(t, err)

	now := time.Now()
	stamp := Stamp{ModTime: now, Size: 10}
	node := schemanode.String()

	c.Put("/a.json", stamp, node)
	got, ok := c.Get("/a.json", stamp)
	assert.True(t, ok)
	assert.Same(t, node, got)

	_, ok = c.Get("/a.json", Stamp{ModTime: now.Add(time.Second), Size: 10})
	assert.False(t, ok, "stale stamp misses")
	assert.Equal(t, 0, c.Len(), "stale entry is evicted")

	c.Put("/a.json", stamp, node)
	c.Put("/b.json", stamp, node)
	c.Put("/c.json", stamp, node)
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("/a.json", stamp)
	assert.False(t, ok, "least recently used entry evicted")

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestNewSchemaCache_InvalidSize(t *testing.T) {
	_, err := NewSchemaCache(0)
	assert.Error(t, err)
}
