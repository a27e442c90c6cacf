package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
		BcryptCost:            bcrypt.MinCost, // keep hashing cheap in tests
	}
}

func newUserService(t *testing.T) (*UserService, users.Repository) {
	t.Helper()
	repo := users.NewMemoryRepository()
	return NewUserService(repo, testConfig()), repo
}

func registerUser(t *testing.T, s *UserService, email string) *models.User {
	t.Helper()
	u, _, err := s.Register(context.Background(), "Test User", email, "TestPass123")
	require.NoError(t, err)
	return u
}

// --- tests ---

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	s, _ := newUserService(t)
	ctx := context.Background()

	user, token, err := s.Register(ctx, "  Test User ", "  Test@Example.COM ", "TestPass123")
	require.NoError(t, err)

	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "test@example.com", user.Email, "email must be normalized")
	assert.True(t, user.Active)
	assert.NotEqual(t, "TestPass123", user.Password, "raw password must never be stored")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("TestPass123")))

	gotID, err := auth.GetUserIDFromToken(token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), gotID, "token must resolve to the created user")
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s, _ := newUserService(t)
	ctx := context.Background()

	registerUser(t, s, "dup@example.com")

	_, _, err := s.Register(ctx, "Other", "DUP@example.com", "OtherPass123")
	assert.ErrorIs(t, err, common.ErrorDuplicateEmail, "normalization must not bypass uniqueness")
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	s, _ := newUserService(t)
	ctx := context.Background()

	created := registerUser(t, s, "login@example.com")

	t.Run("success returns fresh token and sets last login", func(t *testing.T) {
		user, token, err := s.Login(ctx, "login@example.com", "TestPass123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		require.NotNil(t, user.LastLoginAt)

		gotID, err := auth.GetUserIDFromToken(token, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, created.ID.Hex(), gotID)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, _, errWrongPass := s.Login(ctx, "login@example.com", "WrongPass123")
		_, _, errNoUser := s.Login(ctx, "nobody@example.com", "TestPass123")

		assert.ErrorIs(t, errWrongPass, common.ErrorInvalidCredentials)
		assert.ErrorIs(t, errNoUser, common.ErrorInvalidCredentials)
		assert.Equal(t, errWrongPass, errNoUser)
	})
}

func TestUserService_Login_InactiveUser(t *testing.T) {
	t.Parallel()

	s, repo := newUserService(t)
	ctx := context.Background()

	user := registerUser(t, s, "inactive@example.com")
	user.Active = false
	user.UpdatedAt = time.Now()
	_, err := repo.Update(ctx, user)
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "inactive@example.com", "TestPass123")
	assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	s, _ := newUserService(t)
	ctx := context.Background()

	user := registerUser(t, s, "profile@example.com")

	t.Run("partial update leaves absent fields unchanged", func(t *testing.T) {
		name := "Renamed"
		updated, err := s.UpdateProfile(ctx, user.ID, &name, nil)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "profile@example.com", updated.Email)
	})

	t.Run("email is normalized on update", func(t *testing.T) {
		email := " New@Example.COM "
		updated, err := s.UpdateProfile(ctx, user.ID, nil, &email)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.Email)
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		registerUser(t, s, "taken@example.com")
		email := "taken@example.com"
		_, err := s.UpdateProfile(ctx, user.ID, nil, &email)
		assert.ErrorIs(t, err, common.ErrorDuplicateEmail)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Parallel()

	s, _ := newUserService(t)
	ctx := context.Background()

	user := registerUser(t, s, "pass@example.com")

	t.Run("wrong current password is rejected", func(t *testing.T) {
		err := s.ChangePassword(ctx, user.ID, "WrongPass123", "NewPass456")
		assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
	})

	t.Run("correct current password rehashes", func(t *testing.T) {
		require.NoError(t, s.ChangePassword(ctx, user.ID, "TestPass123", "NewPass456"))

		_, _, err := s.Login(ctx, "pass@example.com", "TestPass123")
		assert.ErrorIs(t, err, common.ErrorInvalidCredentials, "old password must stop working")

		_, _, err = s.Login(ctx, "pass@example.com", "NewPass456")
		assert.NoError(t, err)
	})
}
