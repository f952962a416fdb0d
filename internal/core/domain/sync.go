package domain

// SyncAction is what the engine did with one document
type SyncAction string

const (
	SyncActionUpdated SyncAction = "updated"
	SyncActionDeleted SyncAction = "deleted"
	SyncActionFailed  SyncAction = "failed"
)

// SyncStats holds counters for a batch
type SyncStats struct {
	DocumentsUpdated int `json:"documents_updated"`
	DocumentsDeleted int `json:"documents_deleted"`
	Errors           int `json:"errors"`
}

// DocumentResult is the outcome for a single document
type DocumentResult struct {
	DocumentID string     `json:"document_id"`
	Title      string     `json:"title,omitempty"`
	Path       string     `json:"path,omitempty"`
	Action     SyncAction `json:"action"`
	Error      string     `json:"error,omitempty"`
}

// SyncResult represents the outcome of a batch
type SyncResult struct {
	Owner     string            `json:"owner"`
	Stats     SyncStats         `json:"stats"`
	Documents []*DocumentResult `json:"documents"`
	Duration  float64           `json:"duration_seconds"`
}

// Record folds a document outcome into the batch.
func (r *SyncResult) Record(doc *DocumentResult) {
	r.Documents = append(r.Documents, doc)
	switch doc.Action {
	case SyncActionUpdated:
		r.Stats.DocumentsUpdated++
	case SyncActionDeleted:
		r.Stats.DocumentsDeleted++
	case SyncActionFailed:
		r.Stats.Errors++
	}
}
