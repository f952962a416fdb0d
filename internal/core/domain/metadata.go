package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// OwnerKey is the reserved top-level entry holding the sync owner identity.
const OwnerKey = "owner"

// MetadataRecord remembers where a document's rendered output lives
type MetadataRecord struct {
	Path string `json:"path"`
}

// MetadataSnapshot is the persisted index of rendered documents. On disk it is
// a single JSON object whose "owner" entry is a string and whose other entries
// are records keyed by document id.
type MetadataSnapshot struct {
	Owner   string
	Records map[string]MetadataRecord
}

// NewMetadataSnapshot creates an empty snapshot for the given owner.
func NewMetadataSnapshot(owner string) *MetadataSnapshot {
	return &MetadataSnapshot{
		Owner:   owner,
		Records: make(map[string]MetadataRecord),
	}
}

// IDs returns record keys in sorted order.
func (s *MetadataSnapshot) IDs() []string {
	ids := make([]string, 0, len(s.Records))
	for id := range s.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalJSON writes the owner entry first, then records in key order.
func (s MetadataSnapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	owner, err := json.Marshal(s.Owner)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"` + OwnerKey + `":`)
	buf.Write(owner)

	snapshot := &s
	for _, id := range snapshot.IDs() {
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		rec, err := json.Marshal(s.Records[id])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rec)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the flat object form written by MarshalJSON.
func (s *MetadataSnapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Owner = ""
	s.Records = make(map[string]MetadataRecord, len(raw))
	for key, value := range raw {
		if key == OwnerKey {
			if err := json.Unmarshal(value, &s.Owner); err != nil {
				return fmt.Errorf("decode owner: %w", err)
			}
			continue
		}
		var rec MetadataRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("decode record %s: %w", key, err)
		}
		s.Records[key] = rec
	}
	return nil
}
