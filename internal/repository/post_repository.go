package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"travelblog/internal/model"
)

// ListFilter narrows a post listing. Zero values mean "no constraint".
type ListFilter struct {
	TravelType *model.TravelType
	Limit      int
}

// SearchFilter is a case-insensitive substring search over title and content.
type SearchFilter struct {
	Query      string
	TravelType *model.TravelType
	Limit      int
}

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Post, error)
	List(ctx context.Context, filter ListFilter) ([]model.Post, error)
	Search(ctx context.Context, filter SearchFilter) ([]model.Post, error)
	Delete(ctx context.Context, id uint) error
	CountByTravelType(ctx context.Context) ([]model.TravelTypeStat, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a post; ID and timestamps are assigned by the store.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update writes every column of an existing post.
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// FindByID finds a post by ID.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByIDs returns the posts in the order of ids, skipping ids with no row.
func (r *postRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Post, error) {
	if len(ids) == 0 {
		return []model.Post{}, nil
	}
	var found []model.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	posts := make([]model.Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// List returns posts newest first.
func (r *postRepository) List(ctx context.Context, filter ListFilter) ([]model.Post, error) {
	q := r.newestFirst(ctx)
	if filter.TravelType != nil {
		q = q.Where("travel_type = ?", *filter.TravelType)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	posts := []model.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Search matches the query against title and content, newest first.
func (r *postRepository) Search(ctx context.Context, filter SearchFilter) ([]model.Post, error) {
	q := r.newestFirst(ctx)
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!')", like, like)
	}
	if filter.TravelType != nil {
		q = q.Where("travel_type = ?", *filter.TravelType)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	posts := []model.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post physically. It returns gorm.ErrRecordNotFound when no row matched.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByTravelType groups posts by category. Posts without a category are counted under nil.
func (r *postRepository) CountByTravelType(ctx context.Context) ([]model.TravelTypeStat, error) {
	stats := []model.TravelTypeStat{}
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Select("travel_type, COUNT(*) AS count").
		Group("travel_type").
		Order("travel_type").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *postRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Post{}).Order("created_at DESC").Order("id DESC")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
