package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"travelblog/internal/model"
)

type recordingIndex struct {
	indexed []uint
	failOn  uint
}

func (r *recordingIndex) IndexPost(ctx context.Context, post *model.Post) error {
	if post.ID == r.failOn {
		return errors.New("rejected")
	}
	r.indexed = append(r.indexed, post.ID)
	return nil
}

func (r *recordingIndex) RemovePost(ctx context.Context, id uint) error { return nil }

func (r *recordingIndex) Search(ctx context.Context, q Query) ([]uint, error) { return nil, nil }

func TestRebuild(t *testing.T) {
	posts := []model.Post{{ID: 1}, {ID: 2}, {ID: 3}}

	idx := &recordingIndex{}
	n, err := Rebuild(context.Background(), idx, posts)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []uint{1, 2, 3}, idx.indexed)

	idx = &recordingIndex{failOn: 2}
	n, err = Rebuild(context.Background(), idx, posts)
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}
