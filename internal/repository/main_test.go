package repository

import (
	"context"
	"testing"

	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupSQLite returns a fresh in-memory database with the schema applied and
// foreign keys enforced.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		Env:          "test",
		DBDriver:     config.DriverSQLite,
		DBSQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Password: "secret",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createPost(t *testing.T, db *gorm.DB, userID uint, content string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Content: &content}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

func createComment(t *testing.T, db *gorm.DB, userID, postID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{UserID: userID, PostID: postID, Content: content}
	require.NoError(t, NewCommentRepository(db).Create(context.Background(), comment))
	return comment
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
