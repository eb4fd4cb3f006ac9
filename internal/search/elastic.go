package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"travelblog/internal/model"
)

// maxResultWindow is the cluster's default cap on from+size.
const maxResultWindow = 10000

// indexMapping keeps travel_type exact and gives title and content a
// wildcard subfield for case-insensitive substring matching.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "title":       {"type": "text", "fields": {"substr": {"type": "wildcard"}}},
      "content":     {"type": "text", "fields": {"substr": {"type": "wildcard"}}},
      "travel_type": {"type": "keyword"},
      "created_at":  {"type": "date", "format": "epoch_second"}
    }
  }
}`

// Document is the indexed form of a post.
type Document struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	TravelType string `json:"travel_type,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

// Elastic is an Index backed by Elasticsearch.
type Elastic struct {
	es    *elasticsearch.Client
	index string
}

var _ Index = (*Elastic)(nil)

// Options configure the Elasticsearch connection.
type Options struct {
	URL      string
	Username string
	Password string
	Index    string
	// Transport is used by tests to stub the cluster.
	Transport http.RoundTripper
}

// NewElastic creates a client. It does not contact the cluster.
func NewElastic(opts Options) (*Elastic, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Username:  opts.Username,
		Password:  opts.Password,
		Transport: opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Elastic{es: es, index: opts.Index}, nil
}

// Ping checks that the cluster answers.
func (e *Elastic) Ping(ctx context.Context) error {
	res, err := e.es.Info(e.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch info: %s", res.Status())
	}
	return nil
}

// IndexPost creates or replaces the document for post.
func (e *Elastic) IndexPost(ctx context.Context, post *model.Post) error {
	doc := Document{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt.Unix(),
	}
	if post.TravelType != nil {
		doc.TravelType = string(*post.TravelType)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	res, err := e.es.Index(
		e.index,
		&buf,
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(strconv.FormatUint(uint64(post.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index post %d: %w", post.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index post %d: %s", post.ID, res.Status())
	}
	return nil
}

// RemovePost deletes the document. A missing document is not an error.
func (e *Elastic) RemovePost(ctx context.Context, id uint) error {
	res, err := e.es.Delete(e.index, strconv.FormatUint(uint64(id), 10), e.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove post %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove post %d: %s", id, res.Status())
	}
	return nil
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := e.es.Indices.Exists([]string{e.index}, e.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", e.index, err)
	}
	res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check index %s: %s", e.index, res.Status())
	}

	res, err = e.es.Indices.Create(
		e.index,
		e.es.Indices.Create.WithContext(ctx),
		e.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", e.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		// Another process won the race.
		if strings.Contains(string(msg), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index %s: %s: %s", e.index, res.Status(), msg)
	}
	return nil
}

// Recreate drops the index and creates it again with the current mapping.
func (e *Elastic) Recreate(ctx context.Context) error {
	res, err := e.es.Indices.Delete(
		[]string{e.index},
		e.es.Indices.Delete.WithContext(ctx),
		e.es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("delete index %s: %w", e.index, err)
	}
	res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete index %s: %s", e.index, res.Status())
	}
	return e.EnsureIndex(ctx)
}

// escapeWildcard quotes the wildcard metacharacters of a user term.
func escapeWildcard(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return r.Replace(term)
}

// Search matches the text as a case-insensitive substring of title or
// content, optionally filtered by travel type, newest first.
func (e *Elastic) Search(ctx context.Context, q Query) ([]uint, error) {
	size := q.Limit
	if size <= 0 || size > maxResultWindow {
		size = maxResultWindow
	}

	var filter []map[string]any
	if q.TravelType != nil {
		filter = append(filter, map[string]any{
			"term": map[string]any{"travel_type": string(*q.TravelType)},
		})
	}
	var must []map[string]any
	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := "*" + escapeWildcard(text) + "*"
		var should []map[string]any
		for _, field := range []string{"title.substr", "content.substr"} {
			should = append(should, map[string]any{
				"wildcard": map[string]any{
					field: map[string]any{"value": pattern, "case_insensitive": true},
				},
			})
		}
		must = append(must, map[string]any{
			"bool": map[string]any{"should": should, "minimum_should_match": 1},
		})
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort":  []any{map[string]any{"created_at": "desc"}, map[string]any{"id": "desc"}},
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}
