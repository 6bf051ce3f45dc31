package source

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// HashBytes computes the hex-encoded SHA-256 digest of raw content.
// Used for whole-file change detection.
func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// Hash computes a deterministic digest of the record's identity and fields.
// Fields are serialized through encoding/json, which emits object keys in
// sorted order, so key order in the source document never affects the digest.
func (r *Record) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "type:%s\n", r.Type)
	fmt.Fprintf(h, "name:%s\n", r.Name)
	fmt.Fprintf(h, "source:%s\n", r.Source)
	canonical, err := json.Marshal(r.Fields)
	if err != nil {
		// Fields come from json.Unmarshal, so marshaling cannot fail;
		// degrade to an identity-only digest if it somehow does.
		return fmt.Sprintf("%x", h.Sum(nil))
	}
	h.Write(canonical)
	return fmt.Sprintf("%x", h.Sum(nil))
}
