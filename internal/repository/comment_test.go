package repository

import (
	"context"
	"testing"

	"socialnet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ForeignKeys(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "hi")

	tests := []struct {
		name    string
		comment models.Comment
	}{
		{name: "missing post", comment: models.Comment{UserID: alice.ID, PostID: post.ID + 50, Content: "x"}},
		{name: "missing author", comment: models.Comment{UserID: alice.ID + 50, PostID: post.ID, Content: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &tt.comment)
			require.Error(t, err)
			assert.Equal(t, models.CodeForeignKeyViolation, models.ErrorCode(err))
		})
	}
	assert.Zero(t, count(t, db, &models.Comment{}))
}

func TestCommentRepository_Lifecycle(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice.ID, "hi")

	first := createComment(t, db, bob.ID, post.ID, "first!")
	second := createComment(t, db, alice.ID, post.ID, "welcome")

	require.NoError(t, repo.Like(ctx, first.ID))
	require.NoError(t, repo.Like(ctx, first.ID))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Like)
	require.NotNil(t, got.User)
	assert.Equal(t, "bob", got.User.Nickname)

	out := got.Serialize()
	assert.Equal(t, post.ID, out["post_id"])
	assert.Equal(t, "first!", out["content"])

	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	err = repo.Delete(ctx, first.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	err = repo.Like(ctx, first.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
