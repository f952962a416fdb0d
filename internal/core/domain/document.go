package domain

// WorkflowStatus is a document's position in the authoring pipeline
type WorkflowStatus string

const (
	StatusWriting     WorkflowStatus = "Writing"
	StatusReady       WorkflowStatus = "Ready"
	StatusUpdated     WorkflowStatus = "Updated"
	StatusToBeDeleted WorkflowStatus = "ToBeDeleted"
	StatusDeleted     WorkflowStatus = "Deleted"
)

// IsTrigger reports whether the status is an actionable input for a sync pass.
func (s WorkflowStatus) IsTrigger() bool {
	return s == StatusReady || s == StatusToBeDeleted
}

// Document is a single page of the remote store, built fresh for each sync pass
type Document struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Status     WorkflowStatus `json:"status"`
	Properties *Properties    `json:"properties"`

	// Derived by the sync engine
	Path     string `json:"path,omitempty"`      // Slug path relative to the output root
	IndexKey string `json:"index_key,omitempty"` // Metadata lookup key
}

// NewDocument creates a document with an empty property set.
func NewDocument(id string) *Document {
	return &Document{
		ID:         id,
		Properties: NewProperties(),
	}
}

// Reference is the resolved title and output path of another document
type Reference struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// IsZero reports whether the reference carries nothing to link to.
func (r Reference) IsZero() bool {
	return r.Title == "" && r.Path == ""
}

// Asset is a downloaded binary payload such as an image
type Asset struct {
	Data        []byte
	ContentType string
}
