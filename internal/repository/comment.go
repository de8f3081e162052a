package repository

import (
	"context"

	"socialnet/internal/models"
	"socialnet/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Like(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return storeError("Comment", comment.ID, err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, storeError("Comment", id, err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Like(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("like", gorm.Expr("? + ?", clause.Column{Name: "like"}, 1))
	if result.Error != nil {
		return storeError("Comment", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return storeError("Comment", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}
