package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	us := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	user, err := us.CreateUser(ctx, "  tester ", "tester@example.com", "secret-password")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "tester", user.Username)
	assert.NotEqual(t, "secret-password", string(user.Password))

	got, err := us.GetUserByUsername(ctx, "tester")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "tester@example.com", got.Email)

	byID, err := us.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "tester", byID.Username)
}

func TestCreateUserUniqueness(t *testing.T) {
	db := newTestDB(t)
	us := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	_, err := us.CreateUser(ctx, "tester", "tester@example.com", "secret-password")
	require.NoError(t, err)

	_, err = us.CreateUser(ctx, "tester", "other@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = us.CreateUser(ctx, "other", "tester@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateUserValidation(t *testing.T) {
	db := newTestDB(t)
	us := NewUserService(db, bcrypt.MinCost)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"short username", "ab", "a@example.com", "secret-password", ErrShortUsername},
		{"long username", strings.Repeat("a", 51), "a@example.com", "secret-password", ErrLongUsername},
		{"bad username", "имя", "a@example.com", "secret-password", ErrInvalidUsername},
		{"empty email", "tester", " ", "secret-password", ErrEmptyEmail},
		{"bad email", "tester", "tester.example.com", "secret-password", ErrInvalidEmail},
		{"short password", "tester", "a@example.com", "123", ErrShortPassword},
		{"long password", "tester", "a@example.com", strings.Repeat("p", 73), ErrLongPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := us.CreateUser(context.Background(), tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerifyUser(t *testing.T) {
	db := newTestDB(t)
	us := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	created, err := us.CreateUser(ctx, "tester", "tester@example.com", "secret-password")
	require.NoError(t, err)

	user, err := us.VerifyUser(ctx, "tester", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = us.VerifyUser(ctx, "tester", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = us.VerifyUser(ctx, "nobody", "secret-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)
	us := NewUserService(db, bcrypt.MinCost)

	_, err := us.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = us.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNewUserServiceCostFallback(t *testing.T) {
	us := NewUserService(nil, 100)
	assert.Equal(t, bcrypt.DefaultCost, us.cost)
}
