package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"socialnet/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowerRepository_ForeignKeys(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewFollowerRepository(db)

	alice := createUser(t, db, "alice")

	err := repo.Create(ctx, &models.Follower{FollowerID: alice.ID, FollowedID: alice.ID + 10})
	require.Error(t, err)
	assert.Equal(t, models.CodeForeignKeyViolation, models.ErrorCode(err))

	err = repo.Create(ctx, &models.Follower{FollowerID: alice.ID + 10, FollowedID: alice.ID})
	require.Error(t, err)
	assert.Equal(t, models.CodeForeignKeyViolation, models.ErrorCode(err))
}

func TestFollowerRepository_DuplicateEdgesAllowed(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewFollowerRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: bob.ID, FollowedID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: bob.ID, FollowedID: alice.ID}))

	edges, err := repo.ListFollowers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	n, err := repo.CountFollowers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "count is by distinct follower")

	removed, err := repo.Unfollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	following, err := repo.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowerRepository_FollowDateRoundTrip(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewFollowerRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	dated := &models.Follower{
		FollowerID: alice.ID,
		FollowedID: bob.ID,
		FollowDate: models.NewFollowDate(time.Date(2024, time.February, 29, 18, 30, 0, 0, time.UTC)),
	}
	undated := &models.Follower{FollowerID: bob.ID, FollowedID: alice.ID}
	require.NoError(t, repo.Create(ctx, dated))
	require.NoError(t, repo.Create(ctx, undated))

	got, err := repo.GetByID(ctx, dated.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got.Serialize()["follow_date"])
	require.NotNil(t, got.FollowerUser)
	require.NotNil(t, got.FollowedUser)
	assert.Equal(t, "alice", got.FollowerUser.Nickname)
	assert.Equal(t, "bob", got.FollowedUser.Nickname)

	got, err = repo.GetByID(ctx, undated.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Serialize()["follow_date"])
}

func TestFollowerRepository_Listings(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewFollowerRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: alice.ID, FollowedID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: alice.ID, FollowedID: carol.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: carol.ID, FollowedID: alice.ID}))

	following, err := repo.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, "bob", following[0].FollowedUser.Nickname)
	assert.Equal(t, "carol", following[1].FollowedUser.Nickname)

	followers, err := repo.ListFollowers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "carol", followers[0].FollowerUser.Nickname)

	ok, err := repo.IsFollowing(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, followers[0].ID))
	err = repo.Delete(ctx, followers[0].ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestFollowerRepository_Unfollow_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "followers" WHERE follower_id = $1 AND followed_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	removed, err := repo.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
