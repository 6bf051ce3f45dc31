package markdown

import "github.com/mgrell/lorekeep/internal/source"

// bodyRequired lists record types that are meaningless without prose entries.
var bodyRequired = map[string]bool{
	"spell":      true,
	"item":       true,
	"feat":       true,
	"background": true,
}

// Eligible is the default export predicate: a record must be named, and
// prose-centric types must carry a non-empty entries array.
func Eligible(rec *source.Record) bool {
	if rec.Name == "" {
		return false
	}
	if !bodyRequired[rec.Type] {
		return true
	}
	entries, ok := rec.Fields["entries"].([]any)
	return ok && len(entries) > 0
}
