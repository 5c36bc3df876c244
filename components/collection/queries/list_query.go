package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-collection/components/collection"
)

// ListRecordsInput carries the criteria for a page view.
type ListRecordsInput struct {
	Criteria collection.Criteria
}

type pageService interface {
	SetCriteria(ctx context.Context, crit collection.Criteria) error
	Visible() []collection.Record
}

// ListRecordsQuery loads a collection for the criteria and returns the
// composed visible subset.
type ListRecordsQuery struct {
	service pageService
}

// NewListRecordsQuery builds the query.
func NewListRecordsQuery(service pageService) *ListRecordsQuery {
	return &ListRecordsQuery{service: service}
}

var _ gocommand.Querier[ListRecordsInput, []collection.Record] = (*ListRecordsQuery)(nil)

// Query reloads the store for the criteria and composes the view.
func (q *ListRecordsQuery) Query(ctx context.Context, input ListRecordsInput) ([]collection.Record, error) {
	if err := q.service.SetCriteria(ctx, input.Criteria); err != nil {
		return nil, err
	}
	return q.service.Visible(), nil
}
