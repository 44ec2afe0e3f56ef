// Package auth registers users with their wallet, and issues and revokes access tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"digital_wallet/internal/apperr"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/store"
	"digital_wallet/internal/utils"

	"github.com/sirupsen/logrus"
)

// TokenIssuer signs access tokens. Implemented by utils.TokenManager.
type TokenIssuer interface {
	Generate(userID uint) (string, error)
}

// Revoker remembers logged out token IDs. Implemented by utils.Cache.
type Revoker interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
}

// RegisterInput carries an already shape-validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	PinCode  string
}

// Service handles registration, login and logout.
type Service struct {
	store   store.Store
	tokens  TokenIssuer
	revoker Revoker
}

// NewService creates the auth service. revoker may be nil, which makes logout a no-op.
func NewService(st store.Store, tokens TokenIssuer, revoker Revoker) *Service {
	return &Service{store: st, tokens: tokens, revoker: revoker}
}

// duplicateEmail is the field error for an email that is already registered
func duplicateEmail(op string) error {
	return apperr.Validation(op, "email", "The email has already been taken.")
}

// Register creates the user and an empty wallet in one unit of work and returns an access token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "auth.Register"
	if _, err := s.store.UserByEmail(ctx, in.Email); err == nil {
		return "", duplicateEmail(op)
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", apperr.Storage(op, err)
	}

	password, err := utils.HashSecret(in.Password)
	if err != nil {
		return "", apperr.Storage(op, err)
	}
	pin, err := utils.HashSecret(in.PinCode)
	if err != nil {
		return "", apperr.Storage(op, err)
	}

	user := domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: password,
		Wallet:   domain.Wallet{PinCode: pin}, // Every account starts with an empty wallet
	}
	err = s.store.Atomic(ctx, func(tx store.Tx) error {
		return tx.CreateUser(ctx, &user)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return "", duplicateEmail(op) // Lost a race with a concurrent registration
	} else if err != nil {
		logrus.WithFields(logrus.Fields{
			"email": in.Email,
			"error": err.Error(),
		}).Error("Registration failed")
		return "", apperr.Storage(op, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"wallet_id": user.Wallet.ID,
	}).Info("User registered")
	return s.issue(op, user.ID)
}

// Login verifies the credentials and returns a fresh access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"
	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.New(op, apperr.ErrUnauthorized)
	} else if err != nil {
		return "", apperr.Storage(op, err)
	}
	if !utils.CheckSecret(user.Password, password) {
		logrus.WithField("user_id", user.ID).Warn("Login with invalid password")
		return "", apperr.New(op, apperr.ErrUnauthorized)
	}
	return s.issue(op, user.ID)
}

// Logout revokes the token described by claims until it expires.
func (s *Service) Logout(ctx context.Context, claims *utils.Claims) error {
	const op = "auth.Logout"
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return apperr.New(op, apperr.ErrUnauthorized)
	}
	if s.revoker == nil {
		return nil // Nothing remembers revocations, the token simply runs out
	}
	if err := s.revoker.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": claims.UserID,
			"error":   err.Error(),
		}).Error("Token revocation failed")
		return apperr.Storage(op, err)
	}
	logrus.WithField("user_id", claims.UserID).Info("User logged out")
	return nil
}

func (s *Service) issue(op string, userID uint) (string, error) {
	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", apperr.Storage(op, err)
	}
	return token, nil
}
