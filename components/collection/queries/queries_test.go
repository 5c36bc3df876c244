package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-collection/components/collection"
)

type stubPage struct {
	crit    collection.Criteria
	visible []collection.Record
	err     error
}

func (s *stubPage) SetCriteria(_ context.Context, crit collection.Criteria) error {
	s.crit = crit
	return s.err
}

func (s *stubPage) Visible() []collection.Record { return s.visible }

type stubFinder struct {
	records map[string]collection.Record
}

func (s *stubFinder) Find(id string) (collection.Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

func TestListRecordsQuery(t *testing.T) {
	page := &stubPage{visible: []collection.Record{{ID: "1"}, {ID: "2"}}}
	query := NewListRecordsQuery(page)

	records, err := query.Query(context.Background(), ListRecordsInput{
		Criteria: collection.Criteria{Category: "landing"},
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if page.crit.Category != "landing" {
		t.Fatalf("criteria not forwarded: %+v", page.crit)
	}
}

func TestListRecordsQuerySurfacesLoadFailure(t *testing.T) {
	wantErr := errors.New("load failed")
	query := NewListRecordsQuery(&stubPage{err: wantErr})
	if _, err := query.Query(context.Background(), ListRecordsInput{}); !errors.Is(err, wantErr) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestRecordQuery(t *testing.T) {
	finder := &stubFinder{records: map[string]collection.Record{
		"tpl-1": {ID: "tpl-1"},
	}}
	query := NewRecordQuery(finder)

	rec, err := query.Query(context.Background(), RecordInput{RecordID: "tpl-1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if rec.ID != "tpl-1" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRecordQueryNotFound(t *testing.T) {
	query := NewRecordQuery(&stubFinder{})
	if _, err := query.Query(context.Background(), RecordInput{RecordID: "ghost"}); err == nil {
		t.Fatal("expected not-found error")
	}
}
