// Package services contains server-side business logic: authentication,
// account registration and lookup, and attribute writes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/dbx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/auth"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/config"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/repomanager"
)

// IssuedToken is the result of a successful login. RefreshToken and Scope
// hold common.NotImplementedPlaceholder until refresh is supported.
type IssuedToken struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresAt    time.Time
}

// PasswordHasher is satisfied by *auth.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// AuthService turns credentials into signed access tokens and validates
// presented bearer tokens. It keeps no session state.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	codec       *auth.Codec

	accessTokenValidityDuration time.Duration
	dbTimeout                   time.Duration
	now                         func() time.Time

	// verified against for unknown usernames
	placeholderHash string
}

// NewAuthService constructs an AuthService using repositories and server config.
// The placeholder hash for unknown usernames is built here, so the first
// failed login costs the same as later ones.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, codec *auth.Codec, cfg *config.Config) *AuthService {
	placeholder, _ := hasher.Hash("placeholder-password")
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		codec:                       codec,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		dbTimeout:                   cfg.DBTimeout,
		now:                         time.Now,
		placeholderHash:             placeholder,
	}
}

// Login checks username and password and issues an access token.
//
// Unknown usernames, inactive accounts and wrong passwords all return an
// error wrapping common.ErrInvalidCredentials; the precise cause is wrapped
// alongside it for logging. Store failures wrap common.ErrStore. Every
// credential failure runs exactly one bcrypt comparison so timing does not
// tell them apart.
func (s *AuthService) Login(ctx context.Context, username, password string) (*IssuedToken, error) {
	rec, err := s.lookup(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.placeholderHash)
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, err)
		}
		return nil, storeError(err)
	}

	// verify before the active check so disabled accounts pay the same cost
	match := s.hasher.Verify(password, rec.PasswordHash)

	if !rec.IsActive {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrAccountInactive)
	}

	if !match {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrPasswordMismatch)
	}

	now := s.now().UTC().Truncate(time.Second)
	claims := auth.Claims{
		Subject:   rec.UserName,
		UserID:    rec.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.accessTokenValidityDuration),
	}
	token, err := s.codec.Encode(claims)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &IssuedToken{
		AccessToken:  token,
		RefreshToken: common.NotImplementedPlaceholder,
		Scope:        common.NotImplementedPlaceholder,
		ExpiresAt:    claims.ExpiresAt,
	}, nil
}

func (s *AuthService) lookup(ctx context.Context, username string) (*models.CredentialRecord, error) {
	ctx, cancel := dbx.WithTimeout(ctx, s.dbTimeout)
	defer cancel()
	return s.repomanager.Users(s.db).GetCredentialsByUsername(ctx, username)
}

// Verify extracts the bearer token from an Authorization header value and
// decodes it. Every failure wraps common.ErrUnauthenticated together with
// the extraction or decode cause.
func (s *AuthService) Verify(ctx context.Context, authorizationHeader string) (auth.Claims, error) {
	token, err := auth.ExtractBearerToken(authorizationHeader)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}
	return claims, nil
}

// Refresh is not supported yet and always returns common.ErrNotImplemented.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*IssuedToken, error) {
	return nil, fmt.Errorf("token refresh: %w", common.ErrNotImplemented)
}
