// Package vault maps records to artifact paths inside the output vault.
package vault

import (
	"path/filepath"
	"strings"
)

// typeDirs maps known record types to their vault folder. Unknown types get
// a capitalized folder named after the type.
var typeDirs = map[string]string{
	"spell":      "Spells",
	"monster":    "Creatures",
	"item":       "Items",
	"feat":       "Feats",
	"background": "Backgrounds",
	"condition":  "Conditions",
	"race":       "Races",
	"class":      "Classes",
}

// TypeDir returns the vault folder for a record type.
func TypeDir(recordType string) string {
	t := strings.ToLower(recordType)
	if dir, ok := typeDirs[t]; ok {
		return dir
	}
	if t == "" {
		return "Other"
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

// Resolve returns the artifact path for a record, relative to the vault root:
// "<TypeDir>/<Name (SOURCE)>.md". The name is sanitized for the filesystem.
func Resolve(recordType, name, sourceTag string) string {
	base := Sanitize(name)
	if base == "" {
		base = "Unnamed"
	}
	if tag := Sanitize(sourceTag); tag != "" {
		base += " (" + tag + ")"
	}
	return filepath.Join(TypeDir(recordType), base+".md")
}

// unsafe covers path separators, wildcard and quoting characters that vault
// software or filesystems reject, plus markdown link delimiters.
const unsafe = `/\:*?"<>|#^[]`

// Sanitize strips filesystem-unsafe characters and collapses runs of
// whitespace into single spaces.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(unsafe, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
