package repository

import (
	"context"
	"regexp"
	"testing"

	"socialnet/internal/cache"
	"socialnet/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create_MissingAuthor(t *testing.T) {
	db := setupSQLite(t)

	content := "orphan"
	err := NewPostRepository(db).Create(context.Background(), &models.Post{UserID: 999, Content: &content})
	require.Error(t, err)
	assert.Equal(t, models.CodeForeignKeyViolation, models.ErrorCode(err))
	assert.Zero(t, count(t, db, &models.Post{}))
}

func TestPostRepository_DefaultsAndOptionalColumns(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	alice := createUser(t, db, "alice")
	post := &models.Post{UserID: alice.ID}
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Like)

	out := got.Serialize()
	assert.Nil(t, out["content"])
	assert.Nil(t, out["url"])
	assert.Equal(t, alice.ID, out["user_id"])
}

func TestPostRepository_LikeIsIncremental(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "hi")

	for range 3 {
		require.NoError(t, repo.Like(ctx, post.ID))
	}

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Like)

	err = repo.Like(ctx, post.ID+100)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestPostRepository_Like_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "like"="like" + $1 WHERE id = $2`)).
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Like(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_CascadesComments(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	first := createPost(t, db, alice.ID, "first")
	second := createPost(t, db, alice.ID, "second")
	createComment(t, db, bob.ID, first.ID, "nice")
	createComment(t, db, alice.ID, first.ID, "thanks")
	kept := createComment(t, db, bob.ID, second.ID, "also nice")

	require.NoError(t, repo.Delete(ctx, first.ID))

	comments, err := NewCommentRepository(db).ListByPost(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	remaining, err := NewCommentRepository(db).ListByPost(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	_, err = NewUserRepository(db).GetByID(ctx, alice.ID)
	assert.NoError(t, err, "deleting a post leaves its author")

	err = repo.Delete(ctx, first.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestPostRepository_ListByUserAndFeed(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	a1 := createPost(t, db, alice.ID, "a1")
	b1 := createPost(t, db, bob.ID, "b1")
	createPost(t, db, carol.ID, "c1")
	a2 := createPost(t, db, alice.ID, "a2")

	mine, err := repo.ListByUser(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID)
	assert.Equal(t, a1.ID, mine[1].ID)

	followers := NewFollowerRepository(db)
	require.NoError(t, followers.Create(ctx, &models.Follower{FollowerID: carol.ID, FollowedID: alice.ID}))
	require.NoError(t, followers.Create(ctx, &models.Follower{FollowerID: carol.ID, FollowedID: bob.ID}))

	feed, err := repo.ListFollowedBy(ctx, carol.ID, 10, 0)
	require.NoError(t, err)
	ids := make([]uint, 0, len(feed))
	for _, p := range feed {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []uint{a2.ID, b1.ID, a1.ID}, ids)

	page, err := repo.ListFollowedBy(ctx, carol.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b1.ID, page[0].ID)

	empty, err := repo.ListFollowedBy(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostRepository_GetByID_UsesCache(t *testing.T) {
	db := setupSQLite(t)
	mr := miniredis.RunT(t)
	require.NoError(t, cache.InitRedis(mr.Addr()))
	t.Cleanup(func() { _ = cache.Close() })

	ctx := context.Background()
	repo := NewPostRepository(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "hi")

	_, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)))

	// Write behind the repository's back; the cached copy is still served.
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("content", "edited").Error)
	cached, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", *cached.Content)

	require.NoError(t, repo.Like(ctx, post.ID))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	fresh, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", *fresh.Content)
	assert.Equal(t, 1, fresh.Like)
}
