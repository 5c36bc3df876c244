// Package restclient implements the backend conventions the collection
// components consume: bearer-token REST endpoints returning
// {success, data, message} envelopes, query-string list filtering, verb
// endpoints for stateful actions, and multipart submissions that mix
// JSON-encoded fields with raw file parts.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-collection/components/collection"
)

// Config configures the HTTP client.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// Client talks to the platform REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New builds a client for the given base URL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("restclient: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  httpClient,
	}, nil
}

// Resource binds the client to one resource path (e.g. "templates"). The
// returned value implements collection.RecordSource, ActionPerformer, and
// FormSubmitter.
func (c *Client) Resource(path string) *Resource {
	return &Resource{client: c, path: strings.Trim(path, "/")}
}

// Resource is a client bound to a single resource collection.
type Resource struct {
	client *Client
	path   string
}

var (
	_ collection.RecordSource    = (*Resource)(nil)
	_ collection.ActionPerformer = (*Resource)(nil)
	_ collection.FormSubmitter   = (*Resource)(nil)
)

// List fetches the collection for the criteria snapshot.
func (r *Resource) List(ctx context.Context, crit collection.Criteria) ([]collection.Record, error) {
	endpoint := r.url("") + "?" + criteriaValues(crit).Encode()
	data, err := r.client.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecordList(data, r.path)
}

// Perform executes a stateful action. Delete maps to the DELETE method; every
// other verb posts to {path}/{id}/{verb}.
func (r *Resource) Perform(ctx context.Context, recordID string, act collection.Action) (collection.Outcome, error) {
	if recordID == "" {
		return collection.Outcome{}, fmt.Errorf("restclient: record id is required")
	}
	if _, ok := act.(collection.Delete); ok {
		if _, err := r.client.do(ctx, http.MethodDelete, r.url(recordID), "", nil); err != nil {
			return collection.Outcome{}, err
		}
		return collection.Outcome{Removed: true}, nil
	}

	var body io.Reader
	contentType := ""
	if payload := collection.Payload(act); payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return collection.Outcome{}, fmt.Errorf("restclient: encode %s payload: %w", act.Verb(), err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	data, err := r.client.do(ctx, http.MethodPost, r.url(recordID, act.Verb()), contentType, body)
	if err != nil {
		return collection.Outcome{}, err
	}
	return decodeOutcome(data)
}

// Submit sends a draft submission: POST for create, PUT for edit, multipart
// either way so file parts can ride along with the JSON-encoded fields.
func (r *Resource) Submit(ctx context.Context, sub collection.Submission) (collection.Record, error) {
	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return collection.Record{}, err
	}
	method, endpoint := http.MethodPost, r.url("")
	if sub.RecordID != "" {
		method, endpoint = http.MethodPut, r.url(sub.RecordID)
	}
	data, err := r.client.do(ctx, method, endpoint, contentType, body)
	if err != nil {
		return collection.Record{}, err
	}
	var rec collection.Record
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec); err != nil {
			return collection.Record{}, fmt.Errorf("restclient: decode record: %w", err)
		}
	}
	return rec, nil
}

func (r *Resource) url(segments ...string) string {
	parts := append([]string{r.client.baseURL, r.path}, segments...)
	cleaned := parts[:0]
	for _, p := range parts {
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "/")
}

// do performs the request and unwraps the response envelope. A success:false
// envelope and a non-2xx status collapse into the same *APIError, so callers
// treat both failure layers uniformly.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("restclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restclient: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		if decodeErr == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("restclient: decode response: %w", decodeErr)
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return env.Data, nil
}

// envelope is the {success, data, message} response shape the backend wraps
// every payload in.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// APIError is the uniform failure for transport-level and application-level
// errors.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("restclient: api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("restclient: api error %d", e.Status)
}

// decodeRecordList accepts both data shapes the backend emits: a bare array
// or a {resource: [...]} wrapper keyed by the resource name.
func decodeRecordList(data json.RawMessage, resource string) ([]collection.Record, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []collection.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("restclient: decode %s list: %w", resource, err)
	}
	raw, ok := wrapper[resource]
	if !ok {
		for _, value := range wrapper {
			if bytes.HasPrefix(bytes.TrimSpace(value), []byte("[")) {
				raw, ok = value, true
				break
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("restclient: %s list payload has no array", resource)
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("restclient: decode %s list: %w", resource, err)
	}
	return records, nil
}

func decodeOutcome(data json.RawMessage) (collection.Outcome, error) {
	if len(data) == 0 {
		return collection.Outcome{}, nil
	}
	var outcome collection.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return collection.Outcome{}, fmt.Errorf("restclient: decode outcome: %w", err)
	}
	return outcome, nil
}

// criteriaValues serializes criteria into the query-string contract:
// category, search, sort, page, limit, plus the optional predicates.
func criteriaValues(crit collection.Criteria) url.Values {
	values := url.Values{}
	if crit.Search != "" {
		values.Set("search", crit.Search)
	}
	if crit.Category != "" {
		values.Set("category", crit.Category)
	}
	if crit.Status != "" {
		values.Set("status", crit.Status)
	}
	if crit.Price != collection.PriceAny {
		values.Set("price", string(crit.Price))
	}
	if crit.MinRating > 0 {
		values.Set("min_rating", strconv.FormatFloat(crit.MinRating, 'f', -1, 64))
	}
	if crit.Sort != collection.SortDefault {
		values.Set("sort", string(crit.Sort))
	}
	if crit.Scope != "" && crit.Scope != collection.ScopeAll {
		values.Set("scope", string(crit.Scope))
	}
	if crit.Page > 0 {
		values.Set("page", strconv.Itoa(crit.Page))
	}
	if crit.PerPage > 0 {
		values.Set("limit", strconv.Itoa(crit.PerPage))
	}
	return values
}
