package repository

import (
	"errors"
	"fmt"
	"testing"

	"socialnet/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, code: models.CodeNotFound},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), code: models.CodeNotFound},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, code: models.CodeConflict},
		{name: "gorm foreign key", err: gorm.ErrForeignKeyViolated, code: models.CodeForeignKeyViolation},
		{name: "pg unique", err: &pgconn.PgError{Code: "23505", Message: "duplicate"}, code: models.CodeConflict},
		{name: "pg foreign key", err: &pgconn.PgError{Code: "23503", Message: "violates"}, code: models.CodeForeignKeyViolation},
		{name: "pg other", err: &pgconn.PgError{Code: "40001", Message: "serialization failure"}, code: models.CodeInternal},
		{name: "sqlite unique text", err: errors.New("UNIQUE constraint failed: users.email"), code: models.CodeConflict},
		{name: "sqlite foreign key text", err: errors.New("FOREIGN KEY constraint failed"), code: models.CodeForeignKeyViolation},
		{name: "other", err: errors.New("disk I/O error"), code: models.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storeError("User", 1, tt.err)
			assert.Equal(t, tt.code, models.ErrorCode(got))
			if tt.code != models.CodeNotFound {
				assert.ErrorIs(t, got, tt.err)
			}
		})
	}

	assert.NoError(t, storeError("User", 1, nil))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0))
	assert.Equal(t, 20, clampLimit(-5))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, 100, clampLimit(1000))
}
