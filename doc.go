// Package lorekeep exports compendium source files into a markdown vault,
// one artifact per record, tracking prior exports so repeated runs only
// touch what changed.
//
// # Pipeline
//
// An export run works file by file:
//
//  1. Detect: hash the source file's raw bytes. If the hash matches the
//     persisted snapshot, the file is skipped without reading a single
//     record. Otherwise the file is parsed and each record is classified
//     new, modified, or unchanged by its own content digest.
//
//  2. Export: each new or modified record that passes the eligibility
//     filter is rendered to markdown (frontmatter plus a per-type body),
//     written into the vault, and recorded in the snapshot. A failure on
//     one record never aborts the batch.
//
//  3. Persist: the snapshot is written back once at the end of the run.
//
// # Usage
//
// Create an Engine, point it at source files, and read the run stats:
//
//	e := lorekeep.New(".lorekeep/state.json", "vault")
//	stats, err := e.Export(ctx, []string{"data/spells.json"})
//	fmt.Println(stats)
//
// # Identity and change detection
//
// Records are identified across runs by a composite key of type, name, and
// source tag, case-folded. Record digests are computed over a canonical
// serialization with sorted keys, so reordering fields in a source document
// never triggers a spurious re-export. Force mode ([WithForce]) bypasses
// detection entirely and re-exports every eligible record; it is the rebuild
// switch for when rendering logic changes in ways a content hash cannot see.
package lorekeep
