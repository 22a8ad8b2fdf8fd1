// Package service contains application services for authentication and
// campaign analytics.
package service

import (
	"context"
	"errors"

	pkgcrypto "github.com/aivolabs/aivo/internal/crypto"
	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/repository"
	"github.com/aivolabs/aivo/internal/schema"
	"github.com/aivolabs/aivo/internal/token"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// AuthService defines account registration and token operations.
type AuthService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, in schema.RegisterUser) (model.PublicUser, error)
	// SignIn authenticates credentials and issues a token pair.
	SignIn(ctx context.Context, in schema.SignInUser) (model.TokenPair, model.PublicUser, error)
	// Refresh rotates a valid refresh token into a fresh token pair.
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	hasher *pkgcrypto.Hasher
	tokens *token.Issuer
	log    *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, hasher *pkgcrypto.Hasher, tokens *token.Issuer, log *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register validates the payload, hashes the password and stores the user.
// A duplicate e-mail surfaces as errs.ErrEmailTaken.
func (s *AuthServiceImpl) Register(ctx context.Context, in schema.RegisterUser) (model.PublicUser, error) {
	if err := in.Validate(); err != nil {
		return model.PublicUser{}, err
	}

	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		s.log.Error("check e-mail", zap.Error(err))
		return model.PublicUser{}, errs.ErrInternal
	}
	if taken {
		return model.PublicUser{}, errs.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return model.PublicUser{}, errs.ErrInternal
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.PublicUser{}, errs.ErrInternal
	}
	u := &model.User{
		ID:           uid,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         model.Role(in.Role),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrEmailTaken) {
			return model.PublicUser{}, errs.ErrEmailTaken
		}
		s.log.Error("create user", zap.Error(err))
		return model.PublicUser{}, errs.ErrInternal
	}
	return u.Public(), nil
}

// SignIn verifies credentials. Unknown e-mail and wrong password both map to
// errs.ErrInvalidCredentials so the response does not reveal which one failed.
func (s *AuthServiceImpl) SignIn(ctx context.Context, in schema.SignInUser) (model.TokenPair, model.PublicUser, error) {
	if err := in.Validate(); err != nil {
		return model.TokenPair{}, model.PublicUser{}, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenPair{}, model.PublicUser{}, errs.ErrInvalidCredentials
		}
		s.log.Error("load user", zap.Error(err))
		return model.TokenPair{}, model.PublicUser{}, errs.ErrInternal
	}
	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return model.TokenPair{}, model.PublicUser{}, errs.ErrInvalidCredentials
	}

	pair, err := s.issuePair(u.ID)
	if err != nil {
		s.log.Error("issue tokens", zap.Error(err))
		return model.TokenPair{}, model.PublicUser{}, errs.ErrInternal
	}
	return pair, u.Public(), nil
}

// Refresh validates the refresh token and issues a fresh pair. Expired,
// malformed and wrong-kind tokens all map to errs.ErrInvalidRefreshToken, as
// does a token whose subject no longer exists.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	subject, err := s.tokens.Verify(refreshToken, token.Refresh)
	if err != nil {
		return model.TokenPair{}, errs.ErrInvalidRefreshToken
	}

	if _, err := s.users.GetByID(ctx, subject); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenPair{}, errs.ErrInvalidRefreshToken
		}
		s.log.Error("load user", zap.Error(err))
		return model.TokenPair{}, errs.ErrInternal
	}

	pair, err := s.issuePair(subject)
	if err != nil {
		s.log.Error("issue tokens", zap.Error(err))
		return model.TokenPair{}, errs.ErrInternal
	}
	return pair, nil
}

func (s *AuthServiceImpl) issuePair(userID uuid.UUID) (model.TokenPair, error) {
	access, err := s.tokens.Issue(userID, token.Access)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := s.tokens.Issue(userID, token.Refresh)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
