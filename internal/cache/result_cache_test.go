package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbmap/rbmap/internal/types"
)

func view(name string) *types.StructureView {
	return &types.StructureView{
		Symbols: []*types.DocumentSymbol{{Name: name, Kind: types.SymbolKindClass}},
	}
}

func TestKeyIsContentDerived(t *testing.T) {
	assert.Equal(t, Key([]byte("class Foo\nend\n")), Key([]byte("class Foo\nend\n")))
	assert.NotEqual(t, Key([]byte("class Foo\nend\n")), Key([]byte("class Bar\nend\n")))
}

func TestGetPut(t *testing.T) {
	c := New(4)
	key := Key([]byte("a"))

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, view("A"))
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "A", got.Symbols[0].Name)
	assert.Equal(t, 1, c.Len())
}

func TestPutOverwritesWithoutGrowth(t *testing.T) {
	c := New(4)
	key := Key([]byte("a"))
	c.Put(key, view("old"))
	c.Put(key, view("new"))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "new", got.Symbols[0].Name)
	assert.Equal(t, 1, c.Len())
}

func TestEvictionIsFIFO(t *testing.T) {
	c := New(2)
	k1, k2, k3 := Key([]byte("1")), Key([]byte("2")), Key([]byte("3"))

	c.Put(k1, view("1"))
	c.Put(k2, view("2"))
	c.Put(k3, view("3"))

	_, ok := c.Get(k1)
	assert.False(t, ok)
	_, ok = c.Get(k2)
	assert.True(t, ok)
	_, ok = c.Get(k3)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestZeroCapacityDisablesCaching(t *testing.T) {
	c := New(0)
	key := Key([]byte("a"))
	c.Put(key, view("A"))

	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidate(t *testing.T) {
	c := New(4)
	key := Key([]byte("a"))
	c.Put(key, view("A"))
	c.Invalidate(key)

	_, ok := c.Get(key)
	assert.False(t, ok)

	// Invalidated slots must not count against eviction order.
	c.Put(Key([]byte("b")), view("B"))
	assert.Equal(t, 1, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	c := New(64)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := Key([]byte(fmt.Sprintf("doc-%d", i%8)))
			c.Put(key, view("v"))
			c.Get(key)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8)
}
