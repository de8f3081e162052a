package repository

import (
	"context"

	"socialnet/internal/cache"
	"socialnet/internal/models"
	"socialnet/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByNickname(ctx context.Context, nickname string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return storeError("User", user.Nickname, err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeError("User", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("nickname = ?", nickname).First(&user).Error; err != nil {
		return nil, storeError("User", nickname, err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, storeError("User", email, err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		return storeError("User", user.ID, err)
	}
	cache.InvalidateUser(ctx, user.ID)
	r.log.LogUpdate(ctx, map[string]any{"id": user.ID})
	return nil
}

// Delete removes the user. Posts and comments go with it through ON DELETE CASCADE;
// follower edges have no delete action, so the store rejects the delete while any remain.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	var postIDs []uint
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
		return storeError("Post", id, err)
	}

	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return storeError("User", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}

	// cascaded posts are gone from the store but not from the cache
	keys := make([]string, 0, len(postIDs)+1)
	keys = append(keys, cache.UserKey(id))
	for _, postID := range postIDs {
		keys = append(keys, cache.PostKey(postID))
	}
	cache.Invalidate(ctx, keys...)
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(clampLimit(limit)).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
