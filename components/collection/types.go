package collection

import (
	"context"
	"time"
)

// RecordSource fetches the full record set for a criteria snapshot.
// Implementations are expected to be safe for concurrent use; the REST
// client in restclient satisfies this interface.
type RecordSource interface {
	List(ctx context.Context, crit Criteria) ([]Record, error)
}

// ActionPerformer executes a stateful action against a single record and
// returns the server-confirmed outcome.
type ActionPerformer interface {
	Perform(ctx context.Context, recordID string, act Action) (Outcome, error)
}

// FormSubmitter sends a draft submission (create or edit) to the backend.
type FormSubmitter interface {
	Submit(ctx context.Context, sub Submission) (Record, error)
}

// Notifier surfaces transient user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// ConfirmPrompt gates destructive actions behind explicit user confirmation.
// Returning false short-circuits the action with no side effects.
type ConfirmPrompt interface {
	Confirm(ctx context.Context, prompt string) bool
}

// FileSaver performs the client-side save of a download artifact.
type FileSaver interface {
	Save(ctx context.Context, artifact DownloadArtifact) error
}

// ViewStore persists named saved views (criteria presets) per user.
type ViewStore interface {
	Views(ctx context.Context, userID string) ([]SavedView, error)
	SaveView(ctx context.Context, userID string, view SavedView) error
	DeleteView(ctx context.Context, userID, name string) error
}

// Record is a single domain entity (template, product, contact, appointment,
// course, link) managed by a Store. The attribute schema varies per resource;
// the pattern is agnostic to it.
type Record struct {
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id,omitempty"`
	Attributes map[string]any `json:"attributes"`
	Counters   Counters       `json:"counters"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Counters holds engagement metrics mutated only by server-confirmed actions.
type Counters struct {
	Downloads int     `json:"downloads"`
	Favorites int     `json:"favorites"`
	Clicks    int     `json:"clicks"`
	Rating    float64 `json:"rating"`
	Ratings   int     `json:"ratings"`
}

// OwnedBy reports whether the record belongs to the given user.
func (r Record) OwnedBy(userID string) bool {
	return userID != "" && r.OwnerID == userID
}

// StringAttr returns a string attribute or "" when absent or non-string.
func (r Record) StringAttr(key string) string {
	if v, ok := r.Attributes[key].(string); ok {
		return v
	}
	return ""
}

// FloatAttr returns a numeric attribute coerced to float64, or 0.
func (r Record) FloatAttr(key string) float64 {
	switch v := r.Attributes[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Title returns the record's display title.
func (r Record) Title() string {
	if title := r.StringAttr("title"); title != "" {
		return title
	}
	if name := r.StringAttr("name"); name != "" {
		return name
	}
	return r.ID
}

// Clone returns a copy whose attribute map does not alias the receiver's.
func (r Record) Clone() Record {
	out := r
	if r.Attributes != nil {
		out.Attributes = make(map[string]any, len(r.Attributes))
		for k, v := range r.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// Outcome is a server-confirmed action result the dispatcher reconciles back
// onto the store.
type Outcome struct {
	Record   *Record           `json:"record,omitempty"`
	Removed  bool              `json:"removed,omitempty"`
	Download *DownloadArtifact `json:"download,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// DownloadArtifact carries the server-supplied URL and filename for a
// client-side file save.
type DownloadArtifact struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Submission is a serialized draft ready for the network layer. Fields are
// JSON-encoded individually so they can share a multipart request with raw
// file parts.
type Submission struct {
	Resource string
	RecordID string
	Fields   map[string]any
	Files    map[string]FileUpload
}

// FileUpload is a binary draft field destined for a multipart file part.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SavedView is a named criteria preset a user can recall later.
type SavedView struct {
	Name     string   `json:"name" yaml:"name"`
	Criteria Criteria `json:"criteria" yaml:"criteria"`
}
