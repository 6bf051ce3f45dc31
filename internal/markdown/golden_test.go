package markdown

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGolden_Spell pins the full artifact layout: frontmatter, stat line,
// body prose, and tag expansion.
func TestGolden_Spell(t *testing.T) {
	rec := parseOne(t, fireBoltDoc)
	out, err := NewRenderer().Render(rec, ExportInfo{
		Hash:       "abc123",
		RunID:      "run-1",
		ExportedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("testdata", "fire_bolt.golden.md"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(out))
}
