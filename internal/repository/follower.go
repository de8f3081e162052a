package repository

import (
	"context"

	"socialnet/internal/models"
	"socialnet/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepository defines the interface for follower edge operations
type FollowerRepository interface {
	Create(ctx context.Context, follower *models.Follower) error
	GetByID(ctx context.Context, id uint) (*models.Follower, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.Follower, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.Follower, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followedID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// followerRepository implements FollowerRepository
type followerRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowerRepository creates a new follower repository
func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db, log: observability.NewRepoLogger("followers")}
}

// Create stores a new edge. Duplicate edges between the same pair are allowed.
func (r *followerRepository) Create(ctx context.Context, follower *models.Follower) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(follower).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return storeError("Follower", follower.ID, err)
	}
	r.log.LogCreate(ctx, map[string]any{
		"id":          follower.ID,
		"follower_id": follower.FollowerID,
		"followed_id": follower.FollowedID,
	})
	return nil
}

func (r *followerRepository) GetByID(ctx context.Context, id uint) (*models.Follower, error) {
	var follower models.Follower
	if err := r.db.WithContext(ctx).
		Preload("FollowerUser").
		Preload("FollowedUser").
		First(&follower, id).Error; err != nil {
		return nil, storeError("Follower", id, err)
	}
	return &follower, nil
}

// ListFollowers returns edges pointing at userID, with the following user preloaded.
func (r *followerRepository) ListFollowers(ctx context.Context, userID uint) ([]models.Follower, error) {
	var edges []models.Follower
	if err := r.db.WithContext(ctx).
		Preload("FollowerUser").
		Where("followed_id = ?", userID).
		Order("id ASC").
		Find(&edges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return edges, nil
}

// ListFollowing returns edges leaving userID, with the followed user preloaded.
func (r *followerRepository) ListFollowing(ctx context.Context, userID uint) ([]models.Follower, error) {
	var edges []models.Follower
	if err := r.db.WithContext(ctx).
		Preload("FollowedUser").
		Where("follower_id = ?", userID).
		Order("id ASC").
		Find(&edges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return edges, nil
}

// CountFollowers counts distinct users following userID.
func (r *followerRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Where("followed_id = ?", userID).
		Distinct("follower_id").
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followerRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Unfollow deletes every edge from followerID to followedID and reports how many were removed.
func (r *followerRepository) Unfollow(ctx context.Context, followerID, followedID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follower{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	r.log.LogDelete(ctx, map[string]any{
		"follower_id": followerID,
		"followed_id": followedID,
		"removed":     result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *followerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Follower{}, id)
	if result.Error != nil {
		return storeError("Follower", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Follower", id)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}
