// Package cache provides caching of loaded schema trees.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

// Stamp identifies one version of a file on disk.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

type entry struct {
	stamp Stamp
	node  schemanode.Node
}

// SchemaCache provides thread-safe LRU caching of schema trees keyed by
// absolute file path. An entry is only returned while the file stamp is
// unchanged.
type SchemaCache struct {
	cache *lru.Cache[string, entry]
}

// NewSchemaCache creates a new LRU cache with the specified maximum number of items.
func NewSchemaCache(maxItems int) (*SchemaCache, error) {
	c, err := lru.New[string, entry](maxItems)
	if err != nil {
		return nil, err
	}
	return &SchemaCache{cache: c}, nil
}

// Get retrieves the tree cached for path if it was stored with stamp.
func (c *SchemaCache) Get(path string, stamp Stamp) (schemanode.Node, bool) {
	e, ok := c.cache.Get(path)
	if !ok {
		return nil, false
	}
	if !e.stamp.ModTime.Equal(stamp.ModTime) || e.stamp.Size != stamp.Size {
		c.cache.Remove(path)
		return nil, false
	}
	return e.node, true
}

// Put adds or updates an entry in the cache.
func (c *SchemaCache) Put(path string, stamp Stamp, node schemanode.Node) {
	c.cache.Add(path, entry{stamp: stamp, node: node})
}

// Purge empties the cache.
func (c *SchemaCache) Purge() {
	c.cache.Purge()
}

// Len returns the current number of items in the cache.
func (c *SchemaCache) Len() int {
	return c.cache.Len()
}
