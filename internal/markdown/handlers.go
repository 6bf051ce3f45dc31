package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mgrell/lorekeep/internal/source"
)

// Field is one labeled display value extracted from a record.
type Field struct {
	Label string
	Value string
}

// HandlerFunc extracts display fields from a record. Handlers are pure:
// same record in, same fields out.
type HandlerFunc func(rec *source.Record) []Field

// DefaultHandlers returns the built-in type-to-handler table.
func DefaultHandlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"spell":   SpellFields,
		"monster": MonsterFields,
		"item":    ItemFields,
	}
}

var schools = map[string]string{
	"A": "Abjuration",
	"C": "Conjuration",
	"D": "Divination",
	"E": "Enchantment",
	"V": "Evocation",
	"I": "Illusion",
	"N": "Necromancy",
	"T": "Transmutation",
}

// SpellFields extracts the stat line of a spell record.
func SpellFields(rec *source.Record) []Field {
	var fields []Field
	if lvl, ok := number(rec.Fields["level"]); ok {
		v := "Cantrip"
		if lvl > 0 {
			v = fmt.Sprintf("%d", lvl)
		}
		fields = append(fields, Field{"Level", v})
	}
	if code, ok := rec.Fields["school"].(string); ok {
		name := schools[strings.ToUpper(code)]
		if name == "" {
			name = code
		}
		fields = append(fields, Field{"School", name})
	}
	if v := castingTime(rec.Fields["time"]); v != "" {
		fields = append(fields, Field{"Casting Time", v})
	}
	if v := spellRange(rec.Fields["range"]); v != "" {
		fields = append(fields, Field{"Range", v})
	}
	if v := components(rec.Fields["components"]); v != "" {
		fields = append(fields, Field{"Components", v})
	}
	if v := durations(rec.Fields["duration"]); v != "" {
		fields = append(fields, Field{"Duration", v})
	}
	return fields
}

func castingTime(v any) string {
	times, _ := v.([]any)
	var parts []string
	for _, t := range times {
		m, ok := t.(map[string]any)
		if !ok {
			continue
		}
		n, _ := number(m["number"])
		unit, _ := m["unit"].(string)
		parts = append(parts, fmt.Sprintf("%d %s", n, unit))
	}
	return strings.Join(parts, ", ")
}

func spellRange(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	dist, ok := m["distance"].(map[string]any)
	if !ok {
		t, _ := m["type"].(string)
		return t
	}
	dt, _ := dist["type"].(string)
	if amount, ok := number(dist["amount"]); ok {
		return fmt.Sprintf("%d %s", amount, dt)
	}
	return dt
}

func components(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	var parts []string
	if b, _ := m["v"].(bool); b {
		parts = append(parts, "V")
	}
	if b, _ := m["s"].(bool); b {
		parts = append(parts, "S")
	}
	switch mat := m["m"].(type) {
	case bool:
		if mat {
			parts = append(parts, "M")
		}
	case string:
		parts = append(parts, "M ("+mat+")")
	case map[string]any:
		if text, ok := mat["text"].(string); ok {
			parts = append(parts, "M ("+text+")")
		} else {
			parts = append(parts, "M")
		}
	}
	return strings.Join(parts, ", ")
}

func durations(v any) string {
	ds, _ := v.([]any)
	var parts []string
	for _, d := range ds {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		t, _ := m["type"].(string)
		switch t {
		case "timed":
			if dm, ok := m["duration"].(map[string]any); ok {
				n, _ := number(dm["amount"])
				unit, _ := dm["type"].(string)
				parts = append(parts, fmt.Sprintf("%d %s", n, unit))
			}
		case "instant":
			parts = append(parts, "Instantaneous")
		default:
			if t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, ", ")
}

var sizes = map[string]string{
	"T": "Tiny", "S": "Small", "M": "Medium",
	"L": "Large", "H": "Huge", "G": "Gargantuan",
}

var abilityOrder = []string{"str", "dex", "con", "int", "wis", "cha"}

// MonsterFields extracts the stat block header of a creature record.
func MonsterFields(rec *source.Record) []Field {
	var fields []Field
	if v := creatureSize(rec.Fields["size"]); v != "" {
		fields = append(fields, Field{"Size", v})
	}
	switch ct := rec.Fields["type"].(type) {
	case string:
		fields = append(fields, Field{"Type", ct})
	case map[string]any:
		if t, ok := ct["type"].(string); ok {
			fields = append(fields, Field{"Type", t})
		}
	}
	if v := armorClass(rec.Fields["ac"]); v != "" {
		fields = append(fields, Field{"Armor Class", v})
	}
	if hp, ok := rec.Fields["hp"].(map[string]any); ok {
		avg, _ := number(hp["average"])
		if formula, ok := hp["formula"].(string); ok {
			fields = append(fields, Field{"Hit Points", fmt.Sprintf("%d (%s)", avg, formula)})
		} else {
			fields = append(fields, Field{"Hit Points", fmt.Sprintf("%d", avg)})
		}
	}
	if speed, ok := rec.Fields["speed"].(map[string]any); ok {
		fields = append(fields, Field{"Speed", speeds(speed)})
	}
	var abilities []string
	for _, ab := range abilityOrder {
		if n, ok := number(rec.Fields[ab]); ok {
			abilities = append(abilities, fmt.Sprintf("%s %d", strings.ToUpper(ab), n))
		}
	}
	if len(abilities) > 0 {
		fields = append(fields, Field{"Abilities", strings.Join(abilities, ", ")})
	}
	switch cr := rec.Fields["cr"].(type) {
	case string:
		fields = append(fields, Field{"Challenge", cr})
	case map[string]any:
		if c, ok := cr["cr"].(string); ok {
			fields = append(fields, Field{"Challenge", c})
		}
	}
	return fields
}

func creatureSize(v any) string {
	ss, _ := v.([]any)
	var parts []string
	for _, s := range ss {
		code, _ := s.(string)
		if name := sizes[strings.ToUpper(code)]; name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " or ")
}

func armorClass(v any) string {
	acs, _ := v.([]any)
	var parts []string
	for _, ac := range acs {
		switch a := ac.(type) {
		case float64:
			parts = append(parts, fmt.Sprintf("%d", int(a)))
		case map[string]any:
			if n, ok := number(a["ac"]); ok {
				if from, ok := a["from"].([]any); ok && len(from) > 0 {
					s, _ := from[0].(string)
					parts = append(parts, fmt.Sprintf("%d (%s)", n, s))
				} else {
					parts = append(parts, fmt.Sprintf("%d", n))
				}
			}
		}
	}
	return strings.Join(parts, ", ")
}

func speeds(speed map[string]any) string {
	modes := make([]string, 0, len(speed))
	for mode := range speed {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	var parts []string
	for _, mode := range modes {
		n, ok := number(speed[mode])
		if !ok {
			continue
		}
		if mode == "walk" {
			parts = append(parts, fmt.Sprintf("%d ft.", n))
		} else {
			parts = append(parts, fmt.Sprintf("%s %d ft.", mode, n))
		}
	}
	return strings.Join(parts, ", ")
}

// ItemFields extracts the stat line of an item record.
func ItemFields(rec *source.Record) []Field {
	var fields []Field
	if rarity, ok := rec.Fields["rarity"].(string); ok && rarity != "none" {
		fields = append(fields, Field{"Rarity", rarity})
	}
	if b, _ := rec.Fields["reqAttune"].(bool); b {
		fields = append(fields, Field{"Attunement", "required"})
	} else if s, ok := rec.Fields["reqAttune"].(string); ok {
		fields = append(fields, Field{"Attunement", "required " + s})
	}
	if n, ok := number(rec.Fields["weight"]); ok {
		fields = append(fields, Field{"Weight", fmt.Sprintf("%d lb.", n)})
	}
	if cp, ok := number(rec.Fields["value"]); ok {
		fields = append(fields, Field{"Value", coinage(cp)})
	}
	return fields
}

// coinage renders a copper-piece value in the largest sensible denomination.
func coinage(cp int) string {
	switch {
	case cp >= 100 && cp%100 == 0:
		return fmt.Sprintf("%d gp", cp/100)
	case cp >= 10 && cp%10 == 0:
		return fmt.Sprintf("%d sp", cp/10)
	default:
		return fmt.Sprintf("%d cp", cp)
	}
}

// genericSkip lists fields never shown as generic display values.
var genericSkip = map[string]bool{
	"name": true, "source": true, "entries": true, "page": true,
}

// GenericFields is the fallback handler: scalar fields become labeled values,
// sorted by field name for stable output.
func GenericFields(rec *source.Record) []Field {
	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		if genericSkip[k] || strings.HasPrefix(k, "_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fields []Field
	for _, k := range keys {
		var value string
		switch v := rec.Fields[k].(type) {
		case string:
			value = v
		case float64:
			value = trimFloat(v)
		case bool:
			value = fmt.Sprintf("%t", v)
		default:
			continue // nested structures have no generic rendering
		}
		fields = append(fields, Field{Label: label(k), Value: value})
	}
	return fields
}

func label(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// number coerces a JSON numeric value to int.
func number(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
