package lorekeep

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mgrell/lorekeep/internal/catalog"
	"github.com/mgrell/lorekeep/internal/markdown"
	"github.com/mgrell/lorekeep/internal/state"
	"github.com/mgrell/lorekeep/internal/vault"
)

// Engine drives an export run: it enumerates source files, diffs them against
// the persisted snapshot (or bypasses the diff in force mode), renders each
// eligible changed record into the vault, and writes the snapshot back once
// at the end.
//
// Execution is strictly sequential: files in enumeration order, records in
// source order. The snapshot is the only mutable shared state and only the
// Engine's call stack touches it.
type Engine struct {
	store    *state.Store
	vaultDir string

	renderer ArtifactRenderer
	eligible EligibilityFunc
	resolve  PathResolverFunc
	catalog  *catalog.Catalog

	types   map[string]bool // nil means all record types
	force   bool
	verbose bool
	logf    func(format string, args ...any)

	runID string
}

// Option configures an Engine.
type Option func(*Engine)

// WithForce bypasses change detection: every eligible record in every source
// file is re-exported regardless of stored hashes.
func WithForce(force bool) Option {
	return func(e *Engine) { e.force = force }
}

// WithTypes restricts the run to the given record types.
func WithTypes(types ...string) Option {
	return func(e *Engine) {
		if len(types) == 0 {
			return
		}
		e.types = make(map[string]bool, len(types))
		for _, t := range types {
			e.types[strings.ToLower(strings.TrimSpace(t))] = true
		}
	}
}

// WithRenderer replaces the default markdown renderer.
func WithRenderer(r ArtifactRenderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithEligibility replaces the default export predicate.
func WithEligibility(fn EligibilityFunc) Option {
	return func(e *Engine) { e.eligible = fn }
}

// WithPathResolver replaces the default artifact path resolver.
func WithPathResolver(fn PathResolverFunc) Option {
	return func(e *Engine) { e.resolve = fn }
}

// WithCatalog attaches a catalog updated as records are exported. Catalog
// failures are logged, never fatal.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithVerbose enables per-record logging.
func WithVerbose(verbose bool) Option {
	return func(e *Engine) { e.verbose = verbose }
}

// WithLogf redirects the Engine's log output. Defaults to log.Printf.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Engine) { e.logf = logf }
}

// New creates an Engine persisting its snapshot at statePath and writing
// artifacts under vaultDir.
func New(statePath, vaultDir string, opts ...Option) *Engine {
	e := &Engine{
		store:    state.NewStore(statePath),
		vaultDir: vaultDir,
		renderer: markdown.NewRenderer(),
		eligible: markdown.Eligible,
		resolve:  vault.Resolve,
		logf:     log.Printf,
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.store.Logf = e.logf
	return e
}

// RunID returns the identifier stamped into this run's snapshot and artifacts.
func (e *Engine) RunID() string {
	return e.runID
}

// Store exposes the snapshot store, mainly for inspection commands.
func (e *Engine) Store() *state.Store {
	return e.store
}

// Export runs the pipeline over the given source files and returns run
// statistics. Per-record failures are counted and logged but never abort the
// run; only a failure to persist the snapshot is returned as an error.
func (e *Engine) Export(ctx context.Context, paths []string) (Stats, error) {
	var stats Stats
	for _, path := range paths {
		e.exportFile(ctx, path, &stats)
	}
	if err := e.store.Save(e.runID); err != nil {
		e.logf("ERROR: persist state: %v", err)
		return stats, fmt.Errorf("persist state: %w", err)
	}
	return stats, nil
}

func (e *Engine) exportFile(ctx context.Context, path string, stats *Stats) {
	stats.Files++

	var cs *ChangeSet
	if e.force {
		cs = e.forceChangeSet(path)
	} else {
		cs = e.Detect(path)
	}
	if !cs.Changed {
		stats.Unchanged++
		return
	}

	for _, entry := range cs.Entries {
		rec := entry.Record
		if e.types != nil && !e.types[strings.ToLower(rec.Type)] {
			continue
		}
		if !e.eligible(rec) {
			stats.Skipped++
			continue
		}
		if err := e.exportRecord(ctx, cs, entry); err != nil {
			stats.Errors++
			e.logf("ERROR: export %s: %v", entry.Key, err)
			continue
		}
		switch entry.Reason {
		case ReasonNew:
			stats.Created++
		case ReasonModified:
			stats.Updated++
		}
	}
}

func (e *Engine) exportRecord(ctx context.Context, cs *ChangeSet, entry ChangeEntry) error {
	rec := entry.Record
	rel := e.resolve(rec.Type, rec.Name, rec.Source)
	abs := filepath.Join(e.vaultDir, rel)

	info := ExportInfo{Hash: entry.Hash, RunID: e.runID, ExportedAt: time.Now().UTC()}
	content, err := e.renderer.Render(rec, info)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	e.store.RecordExport(cs.Path, cs.FileHash, entry.Key, entry.Hash, rel)

	if e.catalog != nil {
		row := catalog.Row{
			Key:        entry.Key,
			Type:       rec.Type,
			Name:       rec.Name,
			Source:     rec.Source,
			OutputFile: rel,
			Hash:       entry.Hash,
			Body:       string(content),
			ExportedAt: info.ExportedAt,
		}
		if err := e.catalog.Upsert(ctx, row); err != nil {
			e.logf("WARN: catalog %s: %v", entry.Key, err)
		}
	}

	if e.verbose {
		e.logf("%s %s -> %s", entry.Reason, entry.Key, rel)
	}
	return nil
}

// FindSources returns all .json files under dir, sorted by path. A missing
// directory yields an empty list.
func FindSources(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk sources: %w", err)
	}
	return paths, nil
}
