package lorekeep

import (
	"os"

	"github.com/mgrell/lorekeep/internal/source"
)

// Detect diffs one source file against the persisted snapshot.
//
// A missing or unreadable file is tolerated with a warning and reported as
// unchanged. When the file's raw-byte hash matches the snapshot, Detect
// returns immediately without touching a single record: file-level hash
// equality is taken as proof that nothing inside differs. Only when the file
// hash has moved does Detect parse the per-type arrays and classify each
// record by its own digest. A file that fails to parse is also reported as
// unchanged so the snapshot is left alone and the file is retried next run.
func (e *Engine) Detect(path string) *ChangeSet {
	cs := &ChangeSet{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.logf("WARN: source %s does not exist, skipping", path)
		} else {
			e.logf("WARN: read source %s: %v", path, err)
		}
		return cs
	}
	cs.FileHash = source.HashBytes(data)

	if fs := e.store.FileState(path); fs != nil && fs.Hash == cs.FileHash {
		return cs
	}

	records, err := source.Parse(data)
	if err != nil {
		e.logf("ERROR: source %s: %v", path, err)
		return cs
	}

	cs.Changed = true
	for i := range records {
		rec := &records[i]
		key := rec.Key()
		hash := rec.Hash()
		prev, ok := e.store.Entry(path, key)
		switch {
		case !ok:
			cs.Entries = append(cs.Entries, ChangeEntry{Record: rec, Key: key, Hash: hash, Reason: ReasonNew})
		case prev.Hash != hash:
			cs.Entries = append(cs.Entries, ChangeEntry{Record: rec, Key: key, Hash: hash, Reason: ReasonModified})
		}
		// Equal hash: no work needed, omitted from the set.
	}
	return cs
}

// forceChangeSet builds a ChangeSet listing every record in the file,
// ignoring stored hashes. Records already known to the snapshot are marked
// modified, the rest new.
func (e *Engine) forceChangeSet(path string) *ChangeSet {
	cs := &ChangeSet{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.logf("WARN: source %s does not exist, skipping", path)
		} else {
			e.logf("WARN: read source %s: %v", path, err)
		}
		return cs
	}
	cs.FileHash = source.HashBytes(data)

	records, err := source.Parse(data)
	if err != nil {
		e.logf("ERROR: source %s: %v", path, err)
		return cs
	}

	cs.Changed = true
	for i := range records {
		rec := &records[i]
		key := rec.Key()
		reason := ReasonNew
		if _, ok := e.store.Entry(path, key); ok {
			reason = ReasonModified
		}
		cs.Entries = append(cs.Entries, ChangeEntry{Record: rec, Key: key, Hash: rec.Hash(), Reason: reason})
	}
	return cs
}
