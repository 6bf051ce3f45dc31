package markdown

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgrell/lorekeep/internal/source"
)

func parseOne(t *testing.T, doc string) *source.Record {
	t.Helper()
	records, err := source.Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	return &records[0]
}

const fireBoltDoc = `{
	"spell": [{
		"name": "Fire Bolt",
		"source": "TST",
		"level": 0,
		"school": "V",
		"time": [{"number": 1, "unit": "action"}],
		"range": {"type": "point", "distance": {"type": "feet", "amount": 120}},
		"components": {"v": true, "s": true},
		"duration": [{"type": "instant"}],
		"entries": [
			"You hurl a mote of fire. Make a ranged attack, dealing {@damage 1d10} fire damage.",
			{"type": "entries", "name": "At Higher Levels", "entries": ["The damage increases at higher levels."]}
		]
	}]
}`

func TestRender_Spell(t *testing.T) {
	rec := parseOne(t, fireBoltDoc)
	r := NewRenderer()

	out, err := r.Render(rec, ExportInfo{
		Hash:       "abc123",
		RunID:      "run-1",
		ExportedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "---\n"))
	assert.Contains(t, doc, "name: Fire Bolt")
	assert.Contains(t, doc, "type: spell")
	assert.Contains(t, doc, "content_hash: abc123")
	assert.Contains(t, doc, "export_run: run-1")
	assert.Contains(t, doc, "- source/tst")

	assert.Contains(t, doc, "# Fire Bolt")
	assert.Contains(t, doc, "**Level:** Cantrip")
	assert.Contains(t, doc, "**School:** Evocation")
	assert.Contains(t, doc, "**Casting Time:** 1 action")
	assert.Contains(t, doc, "**Range:** 120 feet")
	assert.Contains(t, doc, "**Components:** V, S")
	assert.Contains(t, doc, "**Duration:** Instantaneous")

	assert.Contains(t, doc, "dealing `1d10` fire damage")
	assert.Contains(t, doc, "## At Higher Levels")
}

func TestRender_Monster(t *testing.T) {
	rec := parseOne(t, `{
		"monster": [{
			"name": "Goblin",
			"source": "TST",
			"size": ["S"],
			"type": "humanoid",
			"ac": [{"ac": 15, "from": ["leather armor"]}],
			"hp": {"average": 7, "formula": "2d6"},
			"speed": {"walk": 30},
			"str": 8, "dex": 14, "con": 10, "int": 10, "wis": 8, "cha": 8,
			"cr": "1/4",
			"entries": ["Small and mean."]
		}]
	}`)
	out, err := NewRenderer().Render(rec, ExportInfo{})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "**Size:** Small")
	assert.Contains(t, doc, "**Armor Class:** 15 (leather armor)")
	assert.Contains(t, doc, "**Hit Points:** 7 (2d6)")
	assert.Contains(t, doc, "**Speed:** 30 ft.")
	assert.Contains(t, doc, "**Abilities:** STR 8, DEX 14, CON 10, INT 10, WIS 8, CHA 8")
	assert.Contains(t, doc, "**Challenge:** 1/4")
}

func TestRender_GenericFallback(t *testing.T) {
	rec := parseOne(t, `{"deity": [{"name": "Auril", "source": "TST", "domain": "Nature", "alignment": "NE", "page": 12}]}`)
	out, err := NewRenderer().Render(rec, ExportInfo{})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "**Alignment:** NE")
	assert.Contains(t, doc, "**Domain:** Nature")
	assert.NotContains(t, doc, "**Page:**")
	assert.NotContains(t, doc, "**Name:**")
}

func TestRender_ListAndTableEntries(t *testing.T) {
	rec := parseOne(t, `{"item": [{
		"name": "Deck", "source": "TST",
		"entries": [
			{"type": "list", "items": ["first", "second"]},
			{"type": "table", "caption": "Draws", "colLabels": ["d4", "Effect"], "rows": [["1", "Nothing"], ["2", "Something"]]}
		]
	}]}`)
	out, err := NewRenderer().Render(rec, ExportInfo{})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "- first\n- second\n")
	assert.Contains(t, doc, "**Draws**")
	assert.Contains(t, doc, "| d4 | Effect |")
	assert.Contains(t, doc, "| --- | --- |")
	assert.Contains(t, doc, "| 2 | Something |")
}

func TestExpandTags(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		in, want string
	}{
		{"no tags here", "no tags here"},
		{"cast {@spell fireball|phb} now", "cast [[fireball]] now"},
		{"see {@spell fireball|phb|that spell}", "see [[that spell]]"},
		{"roll {@dice 2d6+3}", "roll `2d6+3`"},
		{"{@b Hit:} attack", "**Hit:** attack"},
		{"{@atk mw} strike", "mw strike"},
		{"nested {@i inner {@dice 1d4} text}", "nested *inner `1d4` text*"},
		{"unterminated {@dice 1d4", "unterminated {@dice 1d4"},
		{"DC {@dc 15} check", "DC DC 15 check"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ExpandTags(tt.in), "input %q", tt.in)
	}
}

func TestExpandTags_CustomResolver(t *testing.T) {
	r := NewRenderer()
	r.Tags = map[string]TagFunc{
		"spell": func(text, ref string) string { return "<" + ref + ":" + text + ">" },
	}
	assert.Equal(t, "<phb:fireball>", r.ExpandTags("{@spell fireball|phb}"))
}

func TestRender_CustomHandler(t *testing.T) {
	r := NewRenderer()
	r.Handlers = map[string]HandlerFunc{
		"spell": func(rec *source.Record) []Field {
			return []Field{{Label: "Custom", Value: "yes"}}
		},
	}
	rec := parseOne(t, fireBoltDoc)
	out, err := r.Render(rec, ExportInfo{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "**Custom:** yes")
	assert.NotContains(t, string(out), "**Level:**")
}

func TestEligible(t *testing.T) {
	eligible := func(doc string) bool {
		var fields map[string]any
		require.NoError(t, json.Unmarshal([]byte(doc), &fields))
		name, _ := fields["name"].(string)
		rt, _ := fields["__type"].(string)
		return Eligible(&source.Record{Type: rt, Name: name, Fields: fields})
	}

	assert.True(t, eligible(`{"__type": "spell", "name": "Shield", "entries": ["A shield appears."]}`))
	assert.False(t, eligible(`{"__type": "spell", "name": "Shield", "entries": []}`))
	assert.False(t, eligible(`{"__type": "spell", "name": "Shield"}`))
	assert.False(t, eligible(`{"__type": "spell", "entries": ["body"]}`))
	// Types without prose requirement only need a name.
	assert.True(t, eligible(`{"__type": "monster", "name": "Goblin"}`))
}

func TestItemFields_Coinage(t *testing.T) {
	rec := &source.Record{Type: "item", Name: "Rope", Fields: map[string]any{
		"rarity": "common", "weight": 10.0, "value": 100.0,
	}}
	fields := ItemFields(rec)
	require.Len(t, fields, 3)
	assert.Equal(t, Field{"Rarity", "common"}, fields[0])
	assert.Equal(t, Field{"Weight", "10 lb."}, fields[1])
	assert.Equal(t, Field{"Value", "1 gp"}, fields[2])
}
