package collection

// Mutation is a confirmed change the store applies by identifier. The
// variants form a closed set dispatched by exhaustive type switch so a typo'd
// verb cannot silently no-op.
type Mutation interface {
	mutationKind() string
}

// CreateRecord appends a new record confirmed by the backend.
type CreateRecord struct {
	Record Record
}

// UpdateRecord replaces the matching record in place.
type UpdateRecord struct {
	ID     string
	Record Record
}

// RemoveRecord deletes the matching record.
type RemoveRecord struct {
	ID string
}

func (CreateRecord) mutationKind() string { return "create" }
func (UpdateRecord) mutationKind() string { return "update" }
func (RemoveRecord) mutationKind() string { return "remove" }
