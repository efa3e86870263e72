package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/pkg/tree"
)

func TestFlatten(t *testing.T) {
	tr := mustTree(t, `{"a":{"b":"Hello","c":{"d":1}},"empty":{},"list":["x","y"],"n":null}`)
	c := tree.Flatten(tr, "common.json")

	assert.Equal(t, []string{"a.b", "a.c.d", "list", "n"}, c.Keys())

	e, ok := c.Get("a.c.d")
	require.True(t, ok)
	assert.Equal(t, 1.0, e.Value)
	assert.Equal(t, "common.json", e.Origin)

	e, ok = c.Get("list")
	require.True(t, ok)
	assert.Equal(t, []any{"x", "y"}, e.Value)

	assert.True(t, c.Has("n"), "null leaves are still leaves")
	assert.False(t, c.Has("empty"))
	assert.Empty(t, c.Overrides)
}

func TestFlattenEveryLeafResolves(t *testing.T) {
	tr := mustTree(t, `{"a":{"b":{"c":"1","d":"2"},"e":"3"},"f":[1]}`)
	c := tree.Flatten(tr, "x.json")
	for _, k := range c.Keys() {
		v, ok := tr.Resolve(tree.ParsePath(k))
		require.True(t, ok, k)
		assert.True(t, tree.IsLeaf(v), k)
		e, _ := c.Get(k)
		assert.True(t, tree.ValuesEqual(e.Value, v), k)
	}
}

func TestFlattenAllLastWriteWins(t *testing.T) {
	docs := []tree.Document{
		{Origin: "common.json", Tree: mustTree(t, `{"a":{"b":"first"},"only":"common"}`)},
		{Origin: "settings/general.json", Tree: mustTree(t, `{"a":{"b":"second"},"s":"x"}`)},
	}
	c := tree.FlattenAll(docs)

	e, _ := c.Get("a.b")
	assert.Equal(t, "second", e.Value)
	assert.Equal(t, "settings/general.json", e.Origin)

	require.Len(t, c.Overrides, 1)
	assert.Equal(t, tree.Override{Path: "a.b", PreviousOrigin: "common.json", Origin: "settings/general.json"}, c.Overrides[0])

	assert.Equal(t, []string{"a.b", "s"}, c.KeysFrom("settings/general.json"))
	assert.Equal(t, []string{"only"}, c.KeysFrom("common.json"))
	assert.Equal(t, []string{"common.json", "settings/general.json"}, c.Origins())
}

func TestNilCatalog(t *testing.T) {
	var c *tree.Catalog
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("a"))
	assert.Nil(t, c.Keys())
}

func TestCatalogOrdered(t *testing.T) {
	c := tree.Flatten(mustTree(t, `{"z":{"b":"1","a":"2"},"m":"3"}`), "f.json")
	assert.Equal(t, []string{"z.b", "z.a", "m"}, c.Ordered())
	assert.Equal(t, []string{"m", "z.a", "z.b"}, c.Keys())
}
