package service

import (
	"context"
	"fmt"
	"time"

	"socialnet/internal/models"
	"socialnet/internal/repository"
)

// FollowService provides follow-graph business logic.
type FollowService struct {
	followerRepo repository.FollowerRepository
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	now          func() time.Time
}

// NewFollowService returns a new FollowService.
func NewFollowService(
	followerRepo repository.FollowerRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *FollowService {
	return &FollowService{
		followerRepo: followerRepo,
		userRepo:     userRepo,
		postRepo:     postRepo,
		now:          time.Now,
	}
}

// Follow records that followerID follows followedID. A nil date stamps today.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint, date *time.Time) (*models.Follower, error) {
	if followerID == followedID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followerID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return nil, err
	}

	already, err := s.followerRepo.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, models.NewConflictError("Follow", nil)
	}

	when := s.now()
	if date != nil {
		when = *date
	}
	edge := &models.Follower{
		FollowerID: followerID,
		FollowedID: followedID,
		FollowDate: models.NewFollowDate(when),
	}
	if err := s.followerRepo.Create(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Unfollow removes every edge from followerID to followedID.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	removed, err := s.followerRepo.Unfollow(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return models.NewNotFoundError("Follow", fmt.Sprintf("%d->%d", followerID, followedID))
	}
	return nil
}

// Followers returns the edges pointing at userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.Follower, error) {
	return s.followerRepo.ListFollowers(ctx, userID)
}

// Following returns the edges leaving userID.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.Follower, error) {
	return s.followerRepo.ListFollowing(ctx, userID)
}

// Feed returns posts by the users userID follows, newest first.
func (s *FollowService) Feed(ctx context.Context, userID uint, limit int) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.ListFollowedBy(ctx, userID, limit, 0)
}
