package repository

import (
	"context"

	"socialnet/internal/cache"
	"socialnet/internal/models"
	"socialnet/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	ListFollowedBy(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Like(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return storeError("Post", post.ID, err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": post.ID, "user_id": post.UserID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).First(&post, id).Error
	})
	if err != nil {
		return nil, storeError("Post", id, err)
	}
	return &post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(clampLimit(limit)).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListFollowedBy returns posts written by users that followerID follows, newest first.
func (r *postRepository) ListFollowedBy(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error) {
	followed := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Select("followed_id").
		Where("follower_id = ?", followerID)

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("user_id IN (?)", followed).
		Order("id DESC").
		Limit(clampLimit(limit)).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return storeError("Post", post.ID, err)
	}
	cache.InvalidatePost(ctx, post.ID)
	r.log.LogUpdate(ctx, map[string]any{"id": post.ID})
	return nil
}

// Like increments the like counter in a single statement.
func (r *postRepository) Like(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("like", gorm.Expr("? + ?", clause.Column{Name: "like"}, 1))
	if result.Error != nil {
		return storeError("Post", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// Delete removes the post; its comments are removed by ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return storeError("Post", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}
