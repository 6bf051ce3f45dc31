// Package markdown renders compendium records into vault documents: a YAML
// frontmatter block followed by a per-type markdown body.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mgrell/lorekeep/internal/source"
)

// ExportInfo carries run-level context stamped into each artifact.
type ExportInfo struct {
	Hash       string
	RunID      string
	ExportedAt time.Time
}

// Renderer turns a record into artifact text. Per-type field extraction and
// rich-text tag expansion are both table-driven and injectable; zero value
// tables fall back to the package defaults.
type Renderer struct {
	// Handlers maps a record type to its field extractor. Types without a
	// handler use a generic extractor over scalar fields.
	Handlers map[string]HandlerFunc

	// Tags maps a rich-text tag name ({@spell ...}, {@dice ...}) to its
	// markdown form. Unknown tags degrade to their visible text.
	Tags map[string]TagFunc
}

// NewRenderer returns a Renderer with the default handler and tag tables.
func NewRenderer() *Renderer {
	return &Renderer{Handlers: DefaultHandlers(), Tags: DefaultTags()}
}

// frontmatter is the artifact metadata block. Field order here is the
// emission order.
type frontmatter struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Source     string   `yaml:"source,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	Hash       string   `yaml:"content_hash,omitempty"`
	ExportRun  string   `yaml:"export_run,omitempty"`
	ExportedAt string   `yaml:"exported,omitempty"`
}

// Metadata builds the frontmatter mapping for a record.
func (r *Renderer) Metadata(rec *source.Record, info ExportInfo) any {
	fm := frontmatter{
		Name:   rec.Name,
		Type:   rec.Type,
		Source: rec.Source,
		Tags:   []string{strings.ToLower(rec.Type)},
		Hash:   info.Hash,
	}
	if rec.Source != "" {
		fm.Tags = append(fm.Tags, "source/"+strings.ToLower(rec.Source))
	}
	fm.ExportRun = info.RunID
	if !info.ExportedAt.IsZero() {
		fm.ExportedAt = info.ExportedAt.UTC().Format(time.RFC3339)
	}
	return fm
}

// Render produces the full artifact document for a record.
func (r *Renderer) Render(rec *source.Record, info ExportInfo) ([]byte, error) {
	meta, err := yaml.Marshal(r.Metadata(rec, info))
	if err != nil {
		return nil, fmt.Errorf("render %s: marshal frontmatter: %w", rec.Key(), err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n", rec.Name)

	if fields := r.handlerFor(rec.Type)(rec); len(fields) > 0 {
		b.WriteString("\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "**%s:** %s\n", f.Label, r.ExpandTags(f.Value))
		}
	}

	if entries, ok := rec.Fields["entries"]; ok {
		body := r.renderEntries(entries, 2)
		if body != "" {
			b.WriteString("\n")
			b.WriteString(body)
		}
	}

	return []byte(b.String()), nil
}

func (r *Renderer) handlerFor(recordType string) HandlerFunc {
	handlers := r.Handlers
	if handlers == nil {
		handlers = DefaultHandlers()
	}
	if h, ok := handlers[strings.ToLower(recordType)]; ok {
		return h
	}
	return GenericFields
}

// renderEntries walks a record's structured body. Entry values are plain
// strings, arrays, or typed objects (named sub-entries, lists, tables); the
// walk recurses with deeper heading levels for named sub-entries.
func (r *Renderer) renderEntries(v any, depth int) string {
	var b strings.Builder
	r.writeEntry(&b, v, depth)
	return b.String()
}

func (r *Renderer) writeEntry(b *strings.Builder, v any, depth int) {
	switch e := v.(type) {
	case string:
		b.WriteString(r.ExpandTags(e))
		b.WriteString("\n\n")
	case []any:
		for _, item := range e {
			r.writeEntry(b, item, depth)
		}
	case map[string]any:
		r.writeTypedEntry(b, e, depth)
	}
}

func (r *Renderer) writeTypedEntry(b *strings.Builder, e map[string]any, depth int) {
	kind, _ := e["type"].(string)
	switch kind {
	case "list":
		if items, ok := e["items"].([]any); ok {
			for _, item := range items {
				if s, ok := item.(string); ok {
					fmt.Fprintf(b, "- %s\n", r.ExpandTags(s))
				}
			}
			b.WriteString("\n")
		}
	case "table":
		r.writeTable(b, e)
	default:
		// "entries", "section", "inset" and anything else with a body.
		if name, ok := e["name"].(string); ok && name != "" {
			if depth > 6 {
				depth = 6
			}
			fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", depth), name)
		}
		if sub, ok := e["entries"]; ok {
			r.writeEntry(b, sub, depth+1)
		}
	}
}

func (r *Renderer) writeTable(b *strings.Builder, e map[string]any) {
	if caption, ok := e["caption"].(string); ok && caption != "" {
		fmt.Fprintf(b, "**%s**\n\n", caption)
	}
	labels, _ := e["colLabels"].([]any)
	if len(labels) > 0 {
		cells := make([]string, len(labels))
		for i, l := range labels {
			s, _ := l.(string)
			cells[i] = r.ExpandTags(s)
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
		seps := make([]string, len(labels))
		for i := range seps {
			seps[i] = "---"
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(seps, " | "))
	}
	rows, _ := e["rows"].([]any)
	for _, row := range rows {
		cols, _ := row.([]any)
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = r.ExpandTags(fmt.Sprint(c))
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}
