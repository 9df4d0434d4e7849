package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/shared"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	Role string `json:"perfil"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for user.
func (t *TokenIssuer) Issue(user *User) (string, time.Time, error) {
	now := t.now().UTC()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    t.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies raw and returns the principal it carries.
func (t *TokenIssuer) Parse(raw string) (rbac.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return rbac.Principal{}, &shared.Error{Kind: shared.ErrUnauthorized, Code: shared.CodeUnauthorized, Message: "token expirado"}
		}
		return rbac.Principal{}, &shared.Error{Kind: shared.ErrUnauthorized, Code: shared.CodeUnauthorized, Message: "token inválido"}
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return rbac.Principal{}, &shared.Error{Kind: shared.ErrUnauthorized, Code: shared.CodeUnauthorized, Message: "token inválido"}
	}
	role := rbac.Role(claims.Role)
	if !role.Valid() {
		return rbac.Principal{}, &shared.Error{Kind: shared.ErrUnauthorized, Code: shared.CodeUnauthorized, Message: "perfil desconhecido no token"}
	}
	p := rbac.Principal{ID: id, Role: role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
