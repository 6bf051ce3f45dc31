// Package source parses compendium source files into typed record arrays
// and assigns each record a stable composite key and content digest.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Record is one domain entity found inside a source file's per-type array.
type Record struct {
	Type   string
	Name   string
	Source string
	Fields map[string]any
}

// Key returns the record's composite key: type, name, and source tag,
// case-folded and joined with '|'. Keys identify a record across runs.
func (r *Record) Key() string {
	return Key(r.Type, r.Name, r.Source)
}

// Key builds a composite key from its three parts.
func Key(recordType, name, sourceTag string) string {
	return strings.ToLower(recordType) + "|" + strings.ToLower(name) + "|" + strings.ToLower(sourceTag)
}

// SplitKey returns the type part of a composite key.
func SplitKey(key string) (recordType, name, sourceTag string) {
	parts := strings.SplitN(key, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}

// ParseFile reads and parses a source file. See Parse.
func ParseFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a source document into records. The top level must be a JSON
// object; each key whose value is an array of objects is treated as a record
// type, everything else (metadata fields, "_"-prefixed keys) is skipped.
// Types are visited in sorted order so output order is deterministic; records
// within a type keep their array order.
func Parse(data []byte) ([]Record, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	types := make([]string, 0, len(doc))
	for t := range doc {
		if strings.HasPrefix(t, "_") {
			continue
		}
		types = append(types, t)
	}
	sort.Strings(types)

	var records []Record
	for _, t := range types {
		var items []map[string]any
		if err := json.Unmarshal(doc[t], &items); err != nil {
			// Not a per-type array (version strings, option blocks). Skip.
			continue
		}
		for _, fields := range items {
			records = append(records, Record{
				Type:   t,
				Name:   stringField(fields, "name"),
				Source: stringField(fields, "source"),
				Fields: fields,
			})
		}
	}
	return records, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
