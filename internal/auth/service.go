package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo    Repository
	tokens  *TokenIssuer
	revoked RevocationList
}

// NewService constructs a new Service. revoked may be nil, in which case
// logout is a no-op on the server side.
func NewService(repo Repository, tokens *TokenIssuer, revoked RevocationList) *Service {
	return &Service{repo: repo, tokens: tokens, revoked: revoked}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, time.Time, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Resolve turns a bearer token into a principal, rejecting revoked tokens.
func (s *Service) Resolve(ctx context.Context, raw string) (rbac.Principal, error) {
	p, err := s.tokens.Parse(raw)
	if err != nil {
		return rbac.Principal{}, err
	}
	if s.revoked != nil && p.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, p.TokenID)
		if err != nil {
			return rbac.Principal{}, err
		}
		if revoked {
			return rbac.Principal{}, &shared.Error{Kind: shared.ErrUnauthorized, Code: shared.CodeUnauthorized, Message: "token revogado"}
		}
	}
	return p, nil
}

// Logout revokes the principal's token.
func (s *Service) Logout(ctx context.Context, p rbac.Principal) error {
	if s.revoked == nil || p.TokenID == "" {
		return nil
	}
	return s.revoked.Revoke(ctx, p.TokenID, p.ExpiresAt)
}

// CurrentUser loads the user behind a principal.
func (s *Service) CurrentUser(ctx context.Context, p rbac.Principal) (*User, error) {
	user, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrUnauthorized
	}
	return user, nil
}
