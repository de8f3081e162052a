package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		expectedUser *models.User
		expectedCode string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "nickname", "email", "password"}).
					AddRow(1, "alice", "alice@example.com", "hash")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Nickname: "alice", Email: "alice@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name:   "Driver Failure",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
					WillReturnError(errors.New("connection reset by peer"))
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, models.ErrorCode(err))
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Nickname, user.Nickname)
				assert.Equal(t, tt.expectedUser.Email, user.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_DuplicateFromDriver(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "uni_users_email" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Nickname: "alice", Email: "alice@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 42)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CRUD(t *testing.T) {
	db := setupSQLite(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	assert.NotZero(t, alice.ID)

	byNick, err := repo.GetByNickname(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byNick.ID)
	assert.Equal(t, "secret", byNick.Password, "password is stored as given")

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byEmail.Email = "alice@new.example.com"
	require.NoError(t, repo.Update(ctx, byEmail))

	reloaded, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example.com", reloaded.Email)

	_, err = repo.GetByNickname(ctx, "nobody")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	createUser(t, db, "bob")
	users, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Nickname)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	_, err = repo.GetByID(ctx, alice.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	db := setupSQLite(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, db, "alice")

	err := repo.Create(ctx, &models.User{Nickname: "alice", Email: "other@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	err = repo.Create(ctx, &models.User{Nickname: "alice2", Email: "alice@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
}

func TestUserRepository_Delete_CascadesPostsAndComments(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	alicePost := createPost(t, db, alice.ID, "hi")
	bobPost := createPost(t, db, bob.ID, "hello")
	createComment(t, db, alice.ID, bobPost.ID, "alice on bob")
	createComment(t, db, bob.ID, alicePost.ID, "bob on alice")
	bobOwn := createComment(t, db, bob.ID, bobPost.ID, "bob on bob")

	require.NoError(t, NewUserRepository(db).Delete(ctx, alice.ID))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, bobPost.ID, posts[0].ID)

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	require.Len(t, comments, 1, "comments by alice and comments on alice's posts are removed")
	assert.Equal(t, bobOwn.ID, comments[0].ID)
}

func TestUserRepository_Delete_AliceExample(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "hi")

	require.NoError(t, NewUserRepository(db).Delete(ctx, alice.ID))

	_, err := NewPostRepository(db).GetByID(ctx, post.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	assert.Zero(t, count(t, db, &models.Post{}))
}

func TestUserRepository_Delete_BlockedByFollowerEdges(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	edge := &models.Follower{FollowerID: bob.ID, FollowedID: alice.ID, FollowDate: models.NewFollowDate(time.Now())}
	require.NoError(t, NewFollowerRepository(db).Create(ctx, edge))

	err := repo.Delete(ctx, alice.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeForeignKeyViolation, models.ErrorCode(err))

	assert.Equal(t, int64(1), count(t, db, &models.Follower{}), "follower rows are never removed by a user delete")
	_, err = repo.GetByID(ctx, alice.ID)
	assert.NoError(t, err)

	removed, err := NewFollowerRepository(db).Unfollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	require.NoError(t, repo.Delete(ctx, alice.ID))
}

func TestUserRepository_Delete_AliceExampleWithCache(t *testing.T) {
	db := setupSQLite(t)
	mr := miniredis.RunT(t)
	require.NoError(t, cache.InitRedis(mr.Addr()))
	t.Cleanup(func() { _ = cache.Close() })

	ctx := context.Background()
	posts := NewPostRepository(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "hi")

	_, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.PostKey(post.ID)))

	require.NoError(t, NewUserRepository(db).Delete(ctx, alice.ID))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	_, err = posts.GetByID(ctx, post.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
