// Package search mirrors posts into a full-text index.
package search

import (
	"context"
	"fmt"

	"travelblog/internal/model"
)

// Query is a full-text lookup.
type Query struct {
	Text       string
	TravelType *model.TravelType
	Limit      int
}

// Index stores searchable copies of posts.
type Index interface {
	IndexPost(ctx context.Context, post *model.Post) error
	RemovePost(ctx context.Context, id uint) error
	// Search returns matching post ids, best match first.
	Search(ctx context.Context, q Query) ([]uint, error)
}

// Rebuild indexes every post and returns how many were written.
// It stops at the first failure.
func Rebuild(ctx context.Context, idx Index, posts []model.Post) (int, error) {
	for i := range posts {
		if err := idx.IndexPost(ctx, &posts[i]); err != nil {
			return i, fmt.Errorf("index post %d: %w", posts[i].ID, err)
		}
	}
	return len(posts), nil
}
