package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"migration-verifier/core/utils"

	"github.com/goccy/go-json"
)

// maxErrorBody caps how much of a failed response is kept in a StatusError.
const maxErrorBody = 512

// HTTPStore reads types and records from an entity store over HTTP.
type HTTPStore struct {
	name        string
	baseURL     string
	typesPath   string
	recordsPath string
	typesField  string
	idField     string
	client      *http.Client
}

// NewHTTP creates an HTTP store client. Each request is bounded by cfg.TimeoutSeconds.
func NewHTTP(name string, cfg Config) (*HTTPStore, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("store %s: base_url is required", name)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("store %s: invalid base_url: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("store %s: base_url must be http or https, got %q", name, cfg.BaseURL)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &HTTPStore{
		name:        name,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		typesPath:   withDefault(cfg.TypesPath, "/types"),
		recordsPath: withDefault(cfg.RecordsPath, "/records"),
		typesField:  withDefault(cfg.TypesField, "types"),
		idField:     withDefault(cfg.IDField, "id"),
		client:      &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}, nil
}

// Name returns the store's name.
func (s *HTTPStore) Name() string {
	return s.name
}

// ListTypes fetches the type catalog. The response is either an object whose
// types field holds the list, or a bare JSON array of names.
func (s *HTTPStore) ListTypes(ctx context.Context) ([]string, error) {
	body, err := s.get(ctx, s.typesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, s.name, err)
	}

	var types []string
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &types); err != nil {
			return nil, fmt.Errorf("%w: %s: decode type list: %w", ErrStoreUnavailable, s.name, err)
		}
		return types, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: decode type catalog: %w", ErrStoreUnavailable, s.name, err)
	}
	raw, ok := envelope[s.typesField]
	if !ok {
		return nil, fmt.Errorf("%w: %s: type catalog has no %q field", ErrStoreUnavailable, s.name, s.typesField)
	}
	if err := json.Unmarshal(raw, &types); err != nil {
		return nil, fmt.Errorf("%w: %s: decode %q: %w", ErrStoreUnavailable, s.name, s.typesField, err)
	}
	return types, nil
}

// ListRecords fetches one page of records ordered by identifier.
func (s *HTTPStore) ListRecords(ctx context.Context, recordType string, limit, offset int) (*Page, error) {
	query := url.Values{}
	query.Set("type", recordType)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	query.Set("orderBy", s.idField)

	body, err := s.get(ctx, s.recordsPath, query)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records page: %w", err)
	}

	page := &Page{
		IDs:     make([]string, 0, len(records)),
		Records: len(records),
	}
	for _, record := range records {
		id, ok := utils.ToString(record[s.idField])
		if !ok || id == "" {
			page.Malformed++
			continue
		}
		page.IDs = append(page.IDs, id)
	}
	return page, nil
}

func (s *HTTPStore) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
