package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	apperrors "travelblog/internal/errors"
	"travelblog/internal/logging"
	"travelblog/internal/storage"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize int64 = 5 << 20

// FileMeta describes an uploaded file as reported by the client.
type FileMeta struct {
	Filename    string
	ContentType string
	Size        int64
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// ImageService validates and stores post images.
type ImageService interface {
	Upload(ctx context.Context, r io.Reader, meta FileMeta) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type imageService struct {
	store  storage.ObjectStore
	folder string
	now    func() time.Time
}

// NewImageService creates an image service. A nil store disables uploads.
func NewImageService(store storage.ObjectStore, folder string) ImageService {
	return &imageService{
		store:  store,
		folder: folder,
		now:    time.Now,
	}
}

// Upload checks type and size before anything is sent to the store.
func (s *imageService) Upload(ctx context.Context, r io.Reader, meta FileMeta) (*UploadResult, error) {
	if !strings.HasPrefix(meta.ContentType, "image/") {
		return nil, apperrors.ErrInvalidFileType
	}
	if meta.Size > MaxImageSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if s.store == nil {
		return nil, apperrors.ErrStorageNotConfigured
	}

	publicID := PublicIDFor(meta.Filename, s.now())
	obj, err := s.store.Put(ctx, io.LimitReader(r, MaxImageSize), storage.PutOptions{
		Folder:   s.folder,
		PublicID: publicID,
	})
	if err != nil {
		logging.FromContext(ctx).Error("image_upload_failed", "public_id", publicID, "error", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	return &UploadResult{URL: obj.URL, PublicID: obj.PublicID}, nil
}

// Delete removes an image. Deleting an unknown id succeeds.
func (s *imageService) Delete(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return apperrors.NewValidationError("publicId", "is required")
	}
	if s.store == nil {
		return apperrors.ErrStorageNotConfigured
	}
	if err := s.store.Remove(ctx, publicID); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	return nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// PublicIDFor derives a storage id of the form <unix-millis>-<basename>.
func PublicIDFor(filename string, at time.Time) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = whitespaceRun.ReplaceAllString(strings.TrimSpace(base), "-")
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("%d-%s", at.UnixMilli(), base)
}
