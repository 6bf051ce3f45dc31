package vault

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fire Bolt", "Fire Bolt"},
		{"Ioun Stone (Awareness)", "Ioun Stone (Awareness)"},
		{"Wand of Wonder: Deluxe", "Wand of Wonder Deluxe"},
		{`A/B\C*D?E"F<G>H|I`, "ABCDEFGHI"},
		{"  spaced   out\tname ", "spaced out name"},
		{"link [target] #tag ^anchor", "link target tag anchor"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), "input %q", tt.in)
	}
}

func TestTypeDir(t *testing.T) {
	assert.Equal(t, "Spells", TypeDir("spell"))
	assert.Equal(t, "Creatures", TypeDir("monster"))
	assert.Equal(t, "Creatures", TypeDir("Monster"))
	assert.Equal(t, "Deity", TypeDir("deity"))
	assert.Equal(t, "Other", TypeDir(""))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("Spells", "Fire Bolt (PHB).md"), Resolve("spell", "Fire Bolt", "PHB"))
	assert.Equal(t, filepath.Join("Items", "Rope.md"), Resolve("item", "Rope", ""))
	assert.Equal(t, filepath.Join("Creatures", "Unnamed.md"), Resolve("monster", "", ""))
	assert.Equal(t, filepath.Join("Spells", "AB (TST).md"), Resolve("spell", "A/B", "TST"))
}
