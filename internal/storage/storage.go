// Package storage holds the object storage used for post images.
package storage

import (
	"context"
	"io"
)

// Object is a stored asset.
type Object struct {
	URL      string
	PublicID string
}

// PutOptions place an asset in the store.
type PutOptions struct {
	Folder   string
	PublicID string
}

// ObjectStore uploads and removes image assets.
type ObjectStore interface {
	Put(ctx context.Context, r io.Reader, opts PutOptions) (*Object, error)
	// Remove deletes an asset. Removing a missing asset is not an error.
	Remove(ctx context.Context, publicID string) error
}
