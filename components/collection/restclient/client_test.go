package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-collection/components/collection"
)

func newTestResource(t *testing.T, handler http.Handler) *Resource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL, Token: "secret"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client.Resource("templates")
}

func TestListSendsAuthAndFilters(t *testing.T) {
	var gotAuth, gotCategory, gotSort string
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCategory = r.URL.Query().Get("category")
		gotSort = r.URL.Query().Get("sort")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []collection.Record{{ID: "1"}},
		})
	}))

	records, err := resource.List(context.Background(), collection.Criteria{
		Category: "landing",
		Sort:     collection.SortPopular,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "1" {
		t.Fatalf("unexpected records %v", records)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("missing bearer token, got %q", gotAuth)
	}
	if gotCategory != "landing" || gotSort != "popular" {
		t.Fatalf("filters not forwarded: category=%q sort=%q", gotCategory, gotSort)
	}
}

func TestListDecodesWrappedPayload(t *testing.T) {
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"templates": []collection.Record{{ID: "1"}, {ID: "2"}},
				"total":     2,
			},
		})
	}))

	records, err := resource.List(context.Background(), collection.Criteria{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestEnvelopeFailureBecomesAPIError(t *testing.T) {
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "quota exceeded",
		})
	}))

	_, err := resource.List(context.Background(), collection.Criteria{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusOK || apiErr.Message != "quota exceeded" {
		t.Fatalf("unexpected APIError %+v", apiErr)
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "no such record"})
	}))

	_, err := resource.Perform(context.Background(), "ghost", collection.Favorite{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", apiErr.Status)
	}
}

func TestPerformPostsVerbEndpoint(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    collection.Outcome{Message: "rated"},
		})
	}))

	outcome, err := resource.Perform(context.Background(), "tpl-1", collection.Rate{Stars: 5, Comment: "great"})
	if err != nil {
		t.Fatalf("Perform returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/templates/tpl-1/rate" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotBody["stars"] != float64(5) || gotBody["comment"] != "great" {
		t.Fatalf("payload mismatch %v", gotBody)
	}
	if outcome.Message != "rated" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestPerformDeleteUsesDeleteMethod(t *testing.T) {
	var gotMethod, gotPath string
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	outcome, err := resource.Perform(context.Background(), "tpl-1", collection.Delete{})
	if err != nil {
		t.Fatalf("Perform returned error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/templates/tpl-1" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if !outcome.Removed {
		t.Fatal("delete outcome must report removal")
	}
}

func TestSubmitMultipartRoundTrip(t *testing.T) {
	var gotMethod string
	var fields map[string]any
	var fileName, fileBody string
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		fields = map[string]any{}
		for key, values := range r.MultipartForm.Value {
			var decoded any
			if err := json.Unmarshal([]byte(values[0]), &decoded); err != nil {
				t.Errorf("field %s is not JSON: %v", key, err)
			}
			fields[key] = decoded
		}
		if headers := r.MultipartForm.File["preview_image"]; len(headers) == 1 {
			fileName = headers[0].Filename
			file, _ := headers[0].Open()
			raw, _ := io.ReadAll(file)
			file.Close()
			fileBody = string(raw)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    collection.Record{ID: "tpl-9"},
		})
	}))

	rec, err := resource.Submit(context.Background(), collection.Submission{
		Resource: "templates",
		Fields: map[string]any{
			"title": "Boutique",
			"price": 19.0,
			"tags":  []string{"shop", "landing"},
		},
		Files: map[string]collection.FileUpload{
			"preview_image": {Filename: "preview.png", ContentType: "image/png", Content: []byte("png-bytes")},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("create must POST, got %s", gotMethod)
	}
	if rec.ID != "tpl-9" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if fields["title"] != "Boutique" || fields["price"] != float64(19) {
		t.Fatalf("fields mismatch %v", fields)
	}
	if fileName != "preview.png" || fileBody != "png-bytes" {
		t.Fatalf("file part mismatch: %q %q", fileName, fileBody)
	}
}

func TestSubmitEditUsesPut(t *testing.T) {
	var gotMethod, gotPath string
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": collection.Record{ID: "tpl-1"}})
	}))

	_, err := resource.Submit(context.Background(), collection.Submission{
		Resource: "templates",
		RecordID: "tpl-1",
		Fields:   map[string]any{"title": "Renamed"},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/templates/tpl-1" {
		t.Fatalf("edit must PUT the record path, got %s %s", gotMethod, gotPath)
	}
}

func TestCreateThenListShowsRecordOnce(t *testing.T) {
	stored := []collection.Record{{ID: "tpl-1"}}
	resource := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			rec := collection.Record{ID: "tpl-2", Attributes: map[string]any{}}
			if values := r.MultipartForm.Value["title"]; len(values) == 1 {
				var title string
				_ = json.Unmarshal([]byte(values[0]), &title)
				rec.Attributes["title"] = title
			}
			stored = append(stored, rec)
			json.NewEncoder(w).Encode(map[string]any{"success": true, "data": rec})
		default:
			json.NewEncoder(w).Encode(map[string]any{"success": true, "data": stored})
		}
	}))

	created, err := resource.Submit(context.Background(), collection.Submission{
		Resource: "templates",
		Fields:   map[string]any{"title": "Boutique"},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	records, err := resource.List(context.Background(), collection.Criteria{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	var seen int
	for _, rec := range records {
		if rec.ID == created.ID {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("created record must appear exactly once, saw it %d times in %v", seen, records)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
