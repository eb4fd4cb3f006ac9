package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelblog/internal/model"
)

func TestCreatePost_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/posts", map[string]any{
		"title": "T", "content": "C", "travelType": "Adventure",
	})
	require.NoError(t, env.posts.CreatePost(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Post](t, rec)
	require.NotZero(t, created.ID)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/posts/1", nil)
	require.NoError(t, env.posts.GetPost(withID(c, "1")))
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[model.Post](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	require.NotNil(t, got.TravelType)
	assert.Equal(t, model.TravelAdventure, *got.TravelType)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreatePost_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"missing title", map[string]any{"content": "C"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing content", map[string]any{"title": "T"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown travel type", map[string]any{"title": "T", "content": "C", "travelType": "Backpacking"}, http.StatusBadRequest, "INVALID_TRAVEL_TYPE"},
		{"malformed json", `{"title":`, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, c := env.doJSONRequest(http.MethodPost, "/api/posts", tt.body)
			requireHTTPError(t, env.posts.CreatePost(c), tt.status, tt.code)

			var n int64
			require.NoError(t, env.db.Model(&model.Post{}).Count(&n).Error)
			assert.Zero(t, n)
		})
	}
}

func TestPostByID_NonNumericRejected(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/posts/abc", nil)
	requireHTTPError(t, env.posts.GetPost(withID(c, "abc")), http.StatusBadRequest, "INVALID_ID")

	_, c = env.doJSONRequest(http.MethodPut, "/api/posts/abc", map[string]any{"title": "T", "content": "C"})
	requireHTTPError(t, env.posts.UpdatePost(withID(c, "abc")), http.StatusBadRequest, "INVALID_ID")

	_, c = env.doJSONRequest(http.MethodDelete, "/api/posts/abc", nil)
	requireHTTPError(t, env.posts.DeletePost(withID(c, "abc")), http.StatusBadRequest, "INVALID_ID")
}

func TestPostByID_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/posts/999999", nil)
	requireHTTPError(t, env.posts.GetPost(withID(c, "999999")), http.StatusNotFound, "POST_NOT_FOUND")

	_, c = env.doJSONRequest(http.MethodPut, "/api/posts/999999", map[string]any{"title": "T", "content": "C"})
	requireHTTPError(t, env.posts.UpdatePost(withID(c, "999999")), http.StatusNotFound, "POST_NOT_FOUND")

	_, c = env.doJSONRequest(http.MethodDelete, "/api/posts/999999", nil)
	requireHTTPError(t, env.posts.DeletePost(withID(c, "999999")), http.StatusNotFound, "POST_NOT_FOUND")
}

func TestDeletePost_Twice(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&model.Post{Title: "T", Content: "C"}).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/posts/1", nil)
	require.NoError(t, env.posts.DeletePost(withID(c, "1")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post deleted successfully", decode[map[string]any](t, rec)["message"])

	_, c = env.doJSONRequest(http.MethodDelete, "/api/posts/1", nil)
	requireHTTPError(t, env.posts.DeletePost(withID(c, "1")), http.StatusNotFound, "POST_NOT_FOUND")
}

func TestDeletePost_PurgeImage(t *testing.T) {
	env := newTestEnv(t)
	url, publicID := "https://res.cloudinary.com/demo/a.jpg", "travel-blog/a"
	require.NoError(t, env.db.Create(&model.Post{Title: "T", Content: "C", ImageURL: &url, ImagePublicID: &publicID}).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/posts/1?purgeImage=true", nil)
	require.NoError(t, env.posts.DeletePost(withID(c, "1")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"travel-blog/a"}, env.store.removed)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&model.Post{Title: "Old", Content: "Old body"}).Error)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/posts/1", map[string]any{
		"title": "New", "content": "New body", "travelType": "Luxury",
	})
	require.NoError(t, env.posts.UpdatePost(withID(c, "1")))
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decode[model.Post](t, rec)
	assert.Equal(t, "New", updated.Title)
	require.NotNil(t, updated.TravelType)
	assert.Equal(t, model.TravelLuxury, *updated.TravelType)

	_, c = env.doJSONRequest(http.MethodPut, "/api/posts/1", map[string]any{"title": "New", "content": "x", "travelType": "luxury"})
	requireHTTPError(t, env.posts.UpdatePost(withID(c, "1")), http.StatusBadRequest, "INVALID_TRAVEL_TYPE")
}

func TestListPosts_FamilyFilter(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	family, solo := model.TravelFamily, model.TravelSolo
	for i, p := range []model.Post{
		{Title: "first family", Content: "a", TravelType: &family, CreatedAt: base},
		{Title: "solo", Content: "b", TravelType: &solo, CreatedAt: base.Add(time.Hour)},
		{Title: "second family", Content: "c", TravelType: &family, CreatedAt: base.Add(2 * time.Hour)},
		{Title: "untagged", Content: "d", CreatedAt: base.Add(3 * time.Hour)},
	} {
		p := p
		require.NoError(t, env.db.WithContext(context.Background()).Create(&p).Error, i)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/posts?travelType=Family", nil)
	require.NoError(t, env.posts.ListPosts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	posts := decode[[]model.Post](t, rec)
	require.Len(t, posts, 2)
	assert.Equal(t, "second family", posts[0].Title)
	assert.Equal(t, "first family", posts[1].Title)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/posts?limit=2", nil)
	require.NoError(t, env.posts.ListPosts(c))
	all := decode[[]model.Post](t, rec)
	require.Len(t, all, 2)
	assert.Equal(t, "untagged", all[0].Title)
}

func TestListPosts_BadQuery(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/posts?travelType=family", nil)
	requireHTTPError(t, env.posts.ListPosts(c), http.StatusBadRequest, "INVALID_TRAVEL_TYPE")

	_, c = env.doJSONRequest(http.MethodGet, "/api/posts?limit=0", nil)
	requireHTTPError(t, env.posts.ListPosts(c), http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestListPosts_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/posts", nil)
	require.NoError(t, env.posts.ListPosts(c))
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSearchPosts(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&model.Post{Title: "Lisbon trams", Content: "Yellow line 28"}).Error)
	require.NoError(t, env.db.Create(&model.Post{Title: "Porto", Content: "Wine cellars and TRAMS"}).Error)
	require.NoError(t, env.db.Create(&model.Post{Title: "Alps", Content: "Snow"}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/posts/search?q=tram", nil)
	require.NoError(t, env.posts.SearchPosts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Post](t, rec), 2)
}
