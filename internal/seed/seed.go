package seed

import (
	"context"
	"fmt"
	"log/slog"

	"socialnet/internal/cache"
	"socialnet/internal/models"
	"socialnet/internal/observability"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	NumFollows      int
	CommentsPerPost int
	ShouldClean     bool
	// SkipBcrypt stores DefaultPassword unhashed, for fast local runs.
	SkipBcrypt bool
	// BcryptCost hashes the seed password; 0 means bcrypt.DefaultCost.
	BcryptCost int
	// DryRun builds everything without writing.
	DryRun     bool
	RandomSeed int64
}

// Summary reports how many rows a run produced.
type Summary struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
	Follows  int `json:"follows"`
}

// Seeder fills the database with a connected social mesh.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder writing to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run populates the database with users, posts, comments and follows.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := observability.Logger.With(slog.String("component", "seed"))
	logger.InfoContext(ctx, "starting database seeding",
		slog.Int("users", opts.NumUsers),
		slog.Int("posts", opts.NumPosts),
		slog.Int("follows", opts.NumFollows),
		slog.Bool("dry_run", opts.DryRun),
	)

	if opts.ShouldClean && !opts.DryRun {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	factory, err := NewFactory(s.db, opts)
	if err != nil {
		return nil, err
	}

	users, err := factory.CreateUsers(ctx, opts.NumUsers)
	if err != nil {
		return nil, err
	}
	posts, err := factory.CreatePosts(ctx, users, opts.NumPosts)
	if err != nil {
		return nil, err
	}
	comments, err := factory.CreateComments(ctx, users, posts, opts.CommentsPerPost)
	if err != nil {
		return nil, err
	}
	follows, err := factory.CreateFollows(ctx, users, opts.NumFollows)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Users:    len(users),
		Posts:    len(posts),
		Comments: len(comments),
		Follows:  len(follows),
	}
	logger.InfoContext(ctx, "database seeding complete",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
		slog.Int("follows", summary.Follows),
	)
	return summary, nil
}

// ClearAll removes every row in dependency order. Follower edges go first
// because they block user deletes.
func (s *Seeder) ClearAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Follower{}, &models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := cache.InvalidatePrefix(ctx, "user", "post"); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	return nil
}
