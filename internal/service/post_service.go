package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	apperrors "travelblog/internal/errors"
	"travelblog/internal/logging"
	"travelblog/internal/model"
	"travelblog/internal/repository"
	"travelblog/internal/search"
)

// PostInput is the writable part of a post, shared by create and update.
type PostInput struct {
	Title         string            `json:"title" validate:"notblank,max=255"`
	Content       string            `json:"content" validate:"notblank"`
	TravelType    *model.TravelType `json:"travelType,omitempty" validate:"omitempty,traveltype"`
	ImageURL      *string           `json:"imageUrl,omitempty" validate:"omitempty,http_url,max=1024"`
	ImagePublicID *string           `json:"imagePublicId,omitempty" validate:"omitempty,max=255"`
}

// ListQuery filters a post listing.
type ListQuery struct {
	TravelType *model.TravelType
	Limit      int
}

// SearchQuery is a free-text search over title and content.
type SearchQuery struct {
	Q          string
	TravelType *model.TravelType
	Limit      int
}

// DeleteOptions control side effects of a delete.
type DeleteOptions struct {
	PurgeImage bool
}

// DeleteResult reports what a delete did.
type DeleteResult struct {
	Message     string `json:"message"`
	ImagePurged bool   `json:"imagePurged,omitempty"`
	ImageError  string `json:"imageError,omitempty"`
}

// Stats summarises posts per travel type.
type Stats struct {
	Total        int64                  `json:"total"`
	ByTravelType []model.TravelTypeStat `json:"byTravelType"`
}

// PostService implements the post lifecycle.
type PostService interface {
	List(ctx context.Context, q ListQuery) ([]model.Post, error)
	Search(ctx context.Context, q SearchQuery) ([]model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, in PostInput) (*model.Post, error)
	Update(ctx context.Context, id uint, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, id uint, opts DeleteOptions) (*DeleteResult, error)
	Stats(ctx context.Context) (*Stats, error)
}

type postService struct {
	postRepo  repository.PostRepository
	images    ImageService
	index     search.Index
	validator *validator.Validate
}

// NewPostService creates a post service. images and index may be nil.
func NewPostService(postRepo repository.PostRepository, images ImageService, index search.Index) PostService {
	return &postService{
		postRepo:  postRepo,
		images:    images,
		index:     index,
		validator: NewValidator(),
	}
}

// ParsePostID accepts only positive decimal integers.
func ParsePostID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidID
	}
	return uint(id), nil
}

// ParseTravelType reads an optional travelType query value. Empty means no filter.
func ParseTravelType(raw string) (*model.TravelType, error) {
	if raw == "" {
		return nil, nil
	}
	tt := model.TravelType(raw)
	if !tt.Valid() {
		return nil, apperrors.ErrInvalidTravelType
	}
	return &tt, nil
}

// ParseLimit reads an optional limit query value. Empty means unlimited.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.NewValidationError("limit", "must be a positive integer")
	}
	return n, nil
}

func (s *postService) List(ctx context.Context, q ListQuery) ([]model.Post, error) {
	if q.TravelType != nil && !q.TravelType.Valid() {
		return nil, apperrors.ErrInvalidTravelType
	}
	posts, err := s.postRepo.List(ctx, repository.ListFilter{TravelType: q.TravelType, Limit: q.Limit})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Search queries the index when one is configured and falls back to the
// database when it is not or when the index fails.
func (s *postService) Search(ctx context.Context, q SearchQuery) ([]model.Post, error) {
	if q.TravelType != nil && !q.TravelType.Valid() {
		return nil, apperrors.ErrInvalidTravelType
	}

	if s.index != nil && strings.TrimSpace(q.Q) != "" {
		ids, err := s.index.Search(ctx, search.Query{Text: q.Q, TravelType: q.TravelType, Limit: q.Limit})
		if err == nil {
			posts, err := s.postRepo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("load search hits: %w", err)
			}
			return posts, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "error", err)
	}

	posts, err := s.postRepo.Search(ctx, repository.SearchFilter{Query: q.Q, TravelType: q.TravelType, Limit: q.Limit})
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, in PostInput) (*model.Post, error) {
	in = normalize(in)
	if err := s.validate(in); err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:         in.Title,
		Content:       in.Content,
		TravelType:    in.TravelType,
		ImageURL:      in.ImageURL,
		ImagePublicID: in.ImagePublicID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.mirror(ctx, post)
	return post, nil
}

// Update replaces title and content, and replaces travelType and image with
// whatever was sent. Sending the stored imageUrl alone keeps its public id.
func (s *postService) Update(ctx context.Context, id uint, in PostInput) (*model.Post, error) {
	in = normalize(in)
	if err := s.validator.Struct(in); err != nil {
		return nil, TranslateValidation(err)
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ImageURL != nil && in.ImagePublicID == nil &&
		post.ImageURL != nil && *post.ImageURL == *in.ImageURL {
		in.ImagePublicID = post.ImagePublicID
	}
	if err := checkImagePair(in); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.TravelType = in.TravelType
	post.ImageURL = in.ImageURL
	post.ImagePublicID = in.ImagePublicID

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.mirror(ctx, post)
	return post, nil
}

// Delete removes the row. The stored image is only removed when asked to,
// and a failure to remove it does not undo the delete.
func (s *postService) Delete(ctx context.Context, id uint, opts DeleteOptions) (*DeleteResult, error) {
	var publicID string
	if opts.PurgeImage {
		post, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if post.HasImage() {
			publicID = *post.ImagePublicID
		}
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}

	if s.index != nil {
		if err := s.index.RemovePost(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "post_id", id, "error", err)
		}
	}

	res := &DeleteResult{Message: "Post deleted successfully"}
	if publicID != "" {
		if s.images == nil {
			res.ImageError = apperrors.ErrStorageNotConfigured.Error()
		} else if err := s.images.Delete(ctx, publicID); err != nil {
			logging.FromContext(ctx).Error("image_purge_failed", "post_id", id, "public_id", publicID, "error", err)
			res.ImageError = "image could not be removed from storage"
		} else {
			res.ImagePurged = true
		}
	}
	return res, nil
}

func (s *postService) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.postRepo.CountByTravelType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	stats := &Stats{ByTravelType: rows}
	for _, r := range rows {
		stats.Total += r.Count
	}
	return stats, nil
}

func (s *postService) validate(in PostInput) error {
	if err := s.validator.Struct(in); err != nil {
		return TranslateValidation(err)
	}
	return checkImagePair(in)
}

func (s *postService) mirror(ctx context.Context, post *model.Post) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexPost(ctx, post); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "post_id", post.ID, "error", err)
	}
}

func checkImagePair(in PostInput) error {
	if (in.ImageURL == nil) != (in.ImagePublicID == nil) {
		return apperrors.NewValidationError("imagePublicId", "imageUrl and imagePublicId must be sent together")
	}
	return nil
}

// normalize treats empty optional strings as absent.
func normalize(in PostInput) PostInput {
	if in.TravelType != nil && *in.TravelType == "" {
		in.TravelType = nil
	}
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	if in.ImagePublicID != nil && strings.TrimSpace(*in.ImagePublicID) == "" {
		in.ImagePublicID = nil
	}
	return in
}
