package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "sub", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func row(key, recordType, name, body string) Row {
	return Row{
		Key:        key,
		Type:       recordType,
		Name:       name,
		Source:     "TST",
		OutputFile: name + ".md",
		Hash:       "h-" + key,
		Body:       body,
		ExportedAt: time.Now(),
	}
}

func TestUpsertAndSearch(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, row("spell|fire bolt|tst", "spell", "Fire Bolt", "hurl a mote of fire")))
	require.NoError(t, c.Upsert(ctx, row("spell|shield|tst", "spell", "Shield", "a barrier of force")))
	require.NoError(t, c.Upsert(ctx, row("monster|fire elemental|tst", "monster", "Fire Elemental", "a living flame")))

	hits, err := c.Search(ctx, "fire", "", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Fire Bolt", hits[0].Name)
	assert.Equal(t, "Fire Elemental", hits[1].Name)

	// Body text matches too.
	hits, err = c.Search(ctx, "barrier", "", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Shield", hits[0].Name)

	// Case-insensitive.
	hits, err = c.Search(ctx, "FIRE", "", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearch_TypeFilterAndLimit(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, row("spell|fire bolt|tst", "spell", "Fire Bolt", "")))
	require.NoError(t, c.Upsert(ctx, row("monster|fire elemental|tst", "monster", "Fire Elemental", "")))

	hits, err := c.Search(ctx, "fire", "spell", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "spell", hits[0].Type)

	hits, err = c.Search(ctx, "fire", "", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestUpsert_Replaces(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, row("spell|shield|tst", "spell", "Shield", "v1")))
	r := row("spell|shield|tst", "spell", "Shield", "v2")
	r.Hash = "h2"
	require.NoError(t, c.Upsert(ctx, r))

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := c.Search(ctx, "v2", "", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "h2", hits[0].Hash)
}

func TestCount_Empty(t *testing.T) {
	c := newTestCatalog(t)
	n, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
