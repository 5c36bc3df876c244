package queries

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-collection/components/collection"
)

// RecordInput identifies a single record.
type RecordInput struct {
	RecordID string
}

type recordService interface {
	Find(id string) (collection.Record, bool)
}

// RecordQuery fetches one record from the store by identifier.
type RecordQuery struct {
	service recordService
}

// NewRecordQuery builds the query.
func NewRecordQuery(service recordService) *RecordQuery {
	return &RecordQuery{service: service}
}

var _ gocommand.Querier[RecordInput, collection.Record] = (*RecordQuery)(nil)

// Query resolves the record or fails when it is not in the collection.
func (q *RecordQuery) Query(_ context.Context, input RecordInput) (collection.Record, error) {
	rec, ok := q.service.Find(input.RecordID)
	if !ok {
		return collection.Record{}, fmt.Errorf("queries: record %s not found", input.RecordID)
	}
	return rec, nil
}
