package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelblog/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func esResponse(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newStubbed(t *testing.T, fn roundTripFunc) *Elastic {
	t.Helper()
	e, err := NewElastic(Options{URL: "http://es.local:9200", Index: "posts", Transport: fn})
	require.NoError(t, err)
	return e
}

func TestElastic_IndexPost(t *testing.T) {
	var gotPath string
	var gotDoc Document
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotDoc))
		return esResponse(http.StatusCreated, `{"result":"created"}`), nil
	})

	family := model.TravelFamily
	post := &model.Post{ID: 7, Title: "Kids in Lisbon", Content: "Trams", TravelType: &family, CreatedAt: time.Unix(1700000000, 0)}
	require.NoError(t, e.IndexPost(context.Background(), post))

	assert.Equal(t, "/posts/_doc/7", gotPath)
	assert.Equal(t, Document{ID: 7, Title: "Kids in Lisbon", Content: "Trams", TravelType: "Family", CreatedAt: 1700000000}, gotDoc)
}

func TestElastic_RemovePostIgnoresMissing(t *testing.T) {
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodDelete, r.Method)
		return esResponse(http.StatusNotFound, `{"result":"not_found"}`), nil
	})
	assert.NoError(t, e.RemovePost(context.Background(), 3))
}

func TestElastic_Search(t *testing.T) {
	var body map[string]any
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/posts/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		return esResponse(http.StatusOK, `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":4}},{"_source":{"id":1}}]}}`), nil
	})

	adventure := model.TravelAdventure
	ids, err := e.Search(context.Background(), Query{Text: "alps", TravelType: &adventure, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 1}, ids)

	assert.EqualValues(t, 5, body["size"])
	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	assert.Contains(t, boolQuery, "must")

	filter := boolQuery["filter"].([]any)
	require.Len(t, filter, 1)
	assert.Equal(t, map[string]any{"travel_type": "Adventure"}, filter[0].(map[string]any)["term"])

	should := boolQuery["must"].([]any)[0].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	require.Len(t, should, 2)
	title := should[0].(map[string]any)["wildcard"].(map[string]any)["title.substr"].(map[string]any)
	assert.Equal(t, "*alps*", title["value"])
	assert.Equal(t, true, title["case_insensitive"])
}

func TestElastic_SearchEscapesAndDefaultsSize(t *testing.T) {
	var body map[string]any
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		return esResponse(http.StatusOK, `{"hits":{"hits":[]}}`), nil
	})

	ids, err := e.Search(context.Background(), Query{Text: " 50%* off? "})
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.EqualValues(t, maxResultWindow, body["size"])
	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	assert.NotContains(t, boolQuery, "filter")
	should := boolQuery["must"].([]any)[0].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	content := should[1].(map[string]any)["wildcard"].(map[string]any)["content.substr"].(map[string]any)
	assert.Equal(t, `*50%\* off\?*`, content["value"])
}

func TestElastic_EnsureIndexCreatesMapping(t *testing.T) {
	var requests []string
	var mapping struct {
		Mappings struct {
			Properties map[string]struct {
				Type   string                       `json:"type"`
				Fields map[string]map[string]string `json:"fields"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodHead:
			return esResponse(http.StatusNotFound, ``), nil
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&mapping))
			return esResponse(http.StatusOK, `{"acknowledged":true}`), nil
		}
		t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		return nil, nil
	})

	require.NoError(t, e.EnsureIndex(context.Background()))

	assert.Equal(t, []string{"HEAD /posts", "PUT /posts"}, requests)
	props := mapping.Mappings.Properties
	assert.Equal(t, "keyword", props["travel_type"].Type)
	assert.Equal(t, "date", props["created_at"].Type)
	assert.Equal(t, "wildcard", props["title"].Fields["substr"]["type"])
	assert.Equal(t, "wildcard", props["content"].Fields["substr"]["type"])
}

func TestElastic_EnsureIndexExisting(t *testing.T) {
	calls := 0
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		calls++
		assert.Equal(t, http.MethodHead, r.Method)
		return esResponse(http.StatusOK, ``), nil
	})

	require.NoError(t, e.EnsureIndex(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestElastic_EnsureIndexLostRace(t *testing.T) {
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		if r.Method == http.MethodHead {
			return esResponse(http.StatusNotFound, ``), nil
		}
		return esResponse(http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception"}}`), nil
	})
	assert.NoError(t, e.EnsureIndex(context.Background()))
}

func TestElastic_Recreate(t *testing.T) {
	var requests []string
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			return esResponse(http.StatusOK, `{"acknowledged":true}`), nil
		case http.MethodHead:
			return esResponse(http.StatusNotFound, ``), nil
		default:
			return esResponse(http.StatusOK, `{"acknowledged":true}`), nil
		}
	})

	require.NoError(t, e.Recreate(context.Background()))
	assert.Equal(t, []string{"DELETE /posts", "HEAD /posts", "PUT /posts"}, requests)
}

func TestElastic_SearchError(t *testing.T) {
	e := newStubbed(t, func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusBadRequest, `{"error":"bad query"}`), nil
	})
	_, err := e.Search(context.Background(), Query{Text: "x"})
	assert.Error(t, err)
}
