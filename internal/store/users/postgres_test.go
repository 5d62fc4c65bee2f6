package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcost-service/internal/models"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

func userColumns() []string {
	return []string{"id", "email", "name", "age", "gender", "password_hash", "created_at", "updated_at", "last_login_at"}
}

func TestStore_Create(t *testing.T) {
	s, mock := newMockStore(t)
	age := 34
	user := &models.User{Email: "asha@example.in", Name: "Asha", Age: &age, PasswordHash: "$2a$hash"}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "asha@example.in", "Asha", int64(34), nil, "$2a$hash", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, fixedNow, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := s.Create(context.Background(), &models.User{Email: "a@b.co", Name: "A", PasswordHash: "h"})
	assert.True(t, errors.Is(err, models.ErrDuplicateUser))
}

func TestStore_CreateFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection reset"))

	err := s.Create(context.Background(), &models.User{Email: "a@b.co", Name: "A", PasswordHash: "h"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrDuplicateUser))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStore_FindByEmail(t *testing.T) {
	s, mock := newMockStore(t)
	login := fixedNow.Add(-time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
		WithArgs("asha@example.in").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("0b7e2f9e-3d1c-4e55-9a57-2c1f0f0e8a11", "Asha@Example.in", "Asha", 34, "Female", "$2a$hash", fixedNow, fixedNow, login))

	u, err := s.FindByEmail(context.Background(), " asha@example.in ")
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	require.NotNil(t, u.Age)
	assert.Equal(t, 34, *u.Age)
	require.NotNil(t, u.Gender)
	assert.Equal(t, "Female", *u.Gender)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, login, *u.LastLoginAt)
}

func TestStore_FindByEmailNullableColumns(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("0b7e2f9e-3d1c-4e55-9a57-2c1f0f0e8a11", "a@b.co", "A", nil, nil, "h", fixedNow, fixedNow, nil))

	u, err := s.FindByEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Nil(t, u.Age)
	assert.Nil(t, u.Gender)
	assert.Nil(t, u.LastLoginAt)

	profile := u.Profile()
	assert.Equal(t, models.UserProfile{ID: u.ID, Email: "a@b.co", Name: "A"}, profile)
}

func TestStore_FindByID(t *testing.T) {
	t.Run("malformed id never reaches the database", func(t *testing.T) {
		s, mock := newMockStore(t)
		_, err := s.FindByID(context.Background(), "507f1f77bcf86cd799439011")
		assert.True(t, errors.Is(err, models.ErrUserNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WillReturnRows(sqlmock.NewRows(userColumns()))
		_, err := s.FindByID(context.Background(), "0b7e2f9e-3d1c-4e55-9a57-2c1f0f0e8a11")
		assert.True(t, errors.Is(err, models.ErrUserNotFound))
	})

	t.Run("query error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(errors.New("timeout"))
		_, err := s.FindByID(context.Background(), "0b7e2f9e-3d1c-4e55-9a57-2c1f0f0e8a11")
		require.Error(t, err)
		assert.False(t, errors.Is(err, models.ErrUserNotFound))
	})
}

func TestStore_UpdateLastLogin(t *testing.T) {
	s, mock := newMockStore(t)
	id := "0b7e2f9e-3d1c-4e55-9a57-2c1f0f0e8a11"

	mock.ExpectExec("UPDATE users SET last_login_at").
		WithArgs(fixedNow, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateLastLogin(context.Background(), id, fixedNow))

	mock.ExpectExec("UPDATE users SET last_login_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, errors.Is(s.UpdateLastLogin(context.Background(), id, fixedNow), models.ErrUserNotFound))
}
