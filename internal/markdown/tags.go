package markdown

import "strings"

// TagFunc converts one rich-text tag occurrence to markdown. text is the
// visible part, ref the optional cross-reference target after '|'.
type TagFunc func(text, ref string) string

// DefaultTags returns the built-in tag table. Cross-reference tags become
// vault wiki-links, dice notation becomes code spans, formatting tags map to
// their markdown equivalents.
func DefaultTags() map[string]TagFunc {
	link := func(text, ref string) string { return "[[" + text + "]]" }
	code := func(text, ref string) string { return "`" + text + "`" }
	return map[string]TagFunc{
		"spell":      link,
		"item":       link,
		"creature":   link,
		"monster":    link,
		"condition":  link,
		"feat":       link,
		"background": link,
		"race":       link,
		"class":      link,
		"dice":       code,
		"damage":     code,
		"hit":        func(text, ref string) string { return "`+" + text + "`" },
		"d20":        code,
		"dc":         func(text, ref string) string { return "DC " + text },
		"b":          func(text, ref string) string { return "**" + text + "**" },
		"bold":       func(text, ref string) string { return "**" + text + "**" },
		"i":          func(text, ref string) string { return "*" + text + "*" },
		"italic":     func(text, ref string) string { return "*" + text + "*" },
	}
}

// ExpandTags rewrites {@tag text|ref|display} markup through the Renderer's
// tag table. Tags nest; inner tags are expanded before the outer resolver
// runs. Unknown tags collapse to their visible text.
func (r *Renderer) ExpandTags(s string) string {
	if !strings.Contains(s, "{@") {
		return s
	}
	tags := r.Tags
	if tags == nil {
		tags = DefaultTags()
	}

	var b strings.Builder
	for {
		start := strings.Index(s, "{@")
		if start < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])

		end := matchBrace(s[start:])
		if end < 0 {
			// Unterminated tag; emit as-is.
			b.WriteString(s[start:])
			break
		}
		inner := s[start+2 : start+end]
		s = s[start+end+1:]

		name, rest := inner, ""
		if i := strings.IndexByte(inner, ' '); i >= 0 {
			name, rest = inner[:i], inner[i+1:]
		}
		rest = r.ExpandTags(rest)

		parts := strings.Split(rest, "|")
		text, ref := parts[0], ""
		if len(parts) > 1 {
			ref = parts[1]
		}
		if len(parts) > 2 && parts[2] != "" {
			text = parts[2]
		}

		if fn, ok := tags[strings.ToLower(name)]; ok {
			b.WriteString(fn(text, ref))
		} else {
			b.WriteString(text)
		}
	}
	return b.String()
}

// matchBrace returns the index of the '}' closing the brace at s[0],
// accounting for nested braces, or -1 if unbalanced.
func matchBrace(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
