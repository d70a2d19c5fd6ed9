package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
)

const testUserID = "410544b2-4001-4271-9855-fec4b6a6442a"

func TestUserRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresUserRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("User", "user@nextmail.com", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(testUserID))
	user := &domain.User{Name: "User", Email: "user@nextmail.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.Equal(t, testUserID, user.ID)

	mock.ExpectQuery(`FROM users`).
		WithArgs("user@nextmail.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(testUserID, "User", "user@nextmail.com", "hash"))
	found, err := repo.GetUserByEmail(ctx, "user@nextmail.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.PasswordHash)

	mock.ExpectQuery(`FROM users`).
		WithArgs("nobody@nextmail.com").
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetUserByEmail(ctx, "nobody@nextmail.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.GetUserByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
