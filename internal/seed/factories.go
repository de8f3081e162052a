// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"socialnet/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
	// shared by every built user, hashed once per factory
	password string
	seq      int
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	password := DefaultPassword
	if !opts.SkipBcrypt {
		cost := opts.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		password = string(hashed)
	}

	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:       db,
		faker:    gofakeit.New(seed),
		opts:     opts,
		password: password,
	}, nil
}

// BuildUser returns an unsaved user with a unique nickname and email.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.seq++
	user := &models.User{
		Nickname: truncate(fmt.Sprintf("%s%d", f.faker.Username(), f.seq), 80),
		Email:    truncate(fmt.Sprintf("user%d.%s", f.seq, f.faker.Email()), 120),
		Password: f.password,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildPost returns an unsaved post for userID. Roughly a third of posts carry a URL
// and a few have no text at all.
func (f *Factory) BuildPost(userID uint, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{UserID: userID}
	if f.faker.Number(1, 10) > 1 {
		content := truncate(f.faker.Sentence(f.faker.Number(4, 20)), 250)
		post.Content = &content
	}
	if f.faker.Number(1, 3) == 1 {
		url := truncate(f.faker.URL(), 250)
		post.URL = &url
	}
	post.Like = f.faker.Number(0, 50)
	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildComment returns an unsaved comment by userID on postID.
func (f *Factory) BuildComment(userID, postID uint) *models.Comment {
	return &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: truncate(f.faker.Sentence(f.faker.Number(3, 12)), 250),
		Like:    f.faker.Number(0, 10),
	}
}

// BuildFollow returns an unsaved edge dated within the last year.
func (f *Factory) BuildFollow(followerID, followedID uint) *models.Follower {
	now := time.Now()
	return &models.Follower{
		FollowerID: followerID,
		FollowedID: followedID,
		FollowDate: models.NewFollowDate(f.faker.DateRange(now.AddDate(-1, 0, 0), now)),
	}
}

// CreateUsers builds and persists n users.
func (f *Factory) CreateUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for range n {
		user := f.BuildUser()
		f.assignDryRunID(&user.ID)
		users = append(users, user)
	}
	if err := f.createBatch(ctx, &users, len(users)); err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

// CreatePosts spreads n posts over users at random.
func (f *Factory) CreatePosts(ctx context.Context, users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 || n == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, n)
	for range n {
		author := users[f.faker.Number(0, len(users)-1)]
		post := f.BuildPost(author.ID)
		f.assignDryRunID(&post.ID)
		posts = append(posts, post)
	}
	if err := f.createBatch(ctx, &posts, len(posts)); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

// CreateComments adds up to perPost random comments on each post.
func (f *Factory) CreateComments(ctx context.Context, users []*models.User, posts []*models.Post, perPost int) ([]*models.Comment, error) {
	if len(users) == 0 || perPost <= 0 {
		return nil, nil
	}
	var comments []*models.Comment
	for _, post := range posts {
		for range f.faker.Number(0, perPost) {
			author := users[f.faker.Number(0, len(users)-1)]
			comments = append(comments, f.BuildComment(author.ID, post.ID))
		}
	}
	if err := f.createBatch(ctx, &comments, len(comments)); err != nil {
		return nil, fmt.Errorf("create comments: %w", err)
	}
	return comments, nil
}

// CreateFollows creates up to n distinct edges between different users.
func (f *Factory) CreateFollows(ctx context.Context, users []*models.User, n int) ([]*models.Follower, error) {
	if len(users) < 2 || n == 0 {
		return nil, nil
	}
	maxEdges := len(users) * (len(users) - 1)
	if n > maxEdges {
		n = maxEdges
	}

	type pair struct{ from, to uint }
	seen := make(map[pair]struct{}, n)
	follows := make([]*models.Follower, 0, n)
	for len(follows) < n {
		from := users[f.faker.Number(0, len(users)-1)]
		to := users[f.faker.Number(0, len(users)-1)]
		p := pair{from.ID, to.ID}
		if from.ID == to.ID {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		follows = append(follows, f.BuildFollow(from.ID, to.ID))
	}
	if err := f.createBatch(ctx, &follows, len(follows)); err != nil {
		return nil, fmt.Errorf("create follows: %w", err)
	}
	return follows, nil
}

func (f *Factory) createBatch(ctx context.Context, value any, n int) error {
	if n == 0 {
		return nil
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.WithContext(ctx).CreateInBatches(value, 100).Error
}

func (f *Factory) assignDryRunID(id *uint) {
	if f.opts.DryRun {
		f.nextID++
		*id = f.nextID
	}
}

// truncate keeps at most n runes; varchar limits count characters, not bytes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
