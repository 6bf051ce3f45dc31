package lorekeep

import (
	"fmt"

	"github.com/mgrell/lorekeep/internal/markdown"
	"github.com/mgrell/lorekeep/internal/source"
	"github.com/mgrell/lorekeep/internal/state"
)

// Public aliases for internal types used in the Engine API. These are Go type
// aliases (=) — identical to the internal types at compile time.

type Record = source.Record
type State = state.State
type FileState = state.FileState
type ExportInfo = markdown.ExportInfo

// Reason classifies why a record appears in a ChangeSet.
type Reason string

const (
	ReasonNew      Reason = "new"
	ReasonModified Reason = "modified"
)

// ChangeEntry is one record needing export.
type ChangeEntry struct {
	Record *Record
	Key    string
	Hash   string
	Reason Reason
}

// ChangeSet is the transient diff result for one source file. Records whose
// digest matches the snapshot are omitted entirely.
type ChangeSet struct {
	Path     string
	Changed  bool
	FileHash string
	Entries  []ChangeEntry
}

// Stats aggregates one run's outcomes.
type Stats struct {
	Files     int // source files enumerated
	Unchanged int // files skipped on the fast path
	Created   int // records exported for the first time
	Updated   int // records re-exported after a change
	Skipped   int // records rejected by the eligibility filter
	Errors    int // records (or files) that failed
}

func (s Stats) String() string {
	return fmt.Sprintf("files=%d unchanged=%d created=%d updated=%d skipped=%d errors=%d",
		s.Files, s.Unchanged, s.Created, s.Updated, s.Skipped, s.Errors)
}

// ArtifactRenderer produces the final document body for a record.
type ArtifactRenderer interface {
	Render(rec *Record, info ExportInfo) ([]byte, error)
}

// EligibilityFunc decides whether a record should ever be exported.
type EligibilityFunc func(rec *Record) bool

// PathResolverFunc maps a record's identity to its artifact path relative to
// the vault root.
type PathResolverFunc func(recordType, name, sourceTag string) string
