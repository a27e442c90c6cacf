// Package services contains server-side business logic. This file implements
// UserService, which covers registration, login, profile updates, and
// password changes, plus issuing the access tokens that bind requests to a
// user.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides authentication-related operations:
// - Register: create users and mint their first token
// - Login: verify credentials, record last login, mint a token
// - UpdateProfile / ChangePassword: owner-initiated mutations
type UserService struct {
	repo                  users.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	dummyHash             []byte
}

// NewUserService constructs a UserService using the users repository and
// server config.
func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	// Compared against when login hits an unknown email, so both failure
	// paths cost one bcrypt comparison.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("todokeeper-dummy"), cfg.BcryptCost)
	return &UserService{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		dummyHash:             dummy,
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new active user with a hashed password and returns the
// user together with a fresh access token. A taken email yields
// common.ErrorDuplicateEmail.
func (s *UserService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  string(hash),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, "", common.ErrorDuplicateEmail
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the credentials and, on success, records the login time and
// returns the user with a fresh token. Unknown email and wrong password are
// externally indistinguishable: both yield common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparison so the miss costs the same as a mismatch
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(rawPassword))
			return nil, "", common.ErrorInvalidCredentials
		}
		return nil, "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(rawPassword)); err != nil {
		return nil, "", common.ErrorInvalidCredentials
	}

	if !user.Active {
		return nil, "", common.ErrorInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.SetLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", common.ErrorInternal
	}
	user.LastLoginAt = &now

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetByID resolves a user id, e.g. from a verified token.
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the provided fields to the user's profile; absent
// fields stay unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email *string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}
	if email != nil {
		user.Email = NormalizeEmail(*email)
	}
	user.UpdatedAt = time.Now()

	return s.repo.Update(ctx, user)
}

// ChangePassword re-verifies the current password before storing a hash of
// the new one. A wrong current password yields common.ErrorInvalidCredentials.
func (s *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, currentRaw, newRaw string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentRaw)); err != nil {
		return common.ErrorInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newRaw), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user.Password = string(hash)
	user.UpdatedAt = time.Now()

	if _, err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return nil
}

func (s *UserService) generateToken(userID primitive.ObjectID) (string, error) {
	return auth.GenerateToken(userID.Hex(), s.jwtSecret, s.tokenValidityDuration)
}
