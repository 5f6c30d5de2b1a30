package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified result of a token check.
type Identity struct {
	UserID string
	Email  string
}

// Verifier resolves a bearer token to a user identity.
// Implementations must treat every failure mode (malformed, expired,
// wrong signature) as a verification error; the caller closes the
// connection attempt on any error.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Claims is the payload the API service puts into every access token.
// The user ID travels in the registered "sub" claim.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256-signed access tokens issued by the API
// service. It shares the API's signing secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for HMAC-signed tokens.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

// Verify parses and validates the token, returning the identity carried
// in its claims. Only HMAC signing methods are accepted, which rules out
// algorithm-confusion attacks.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
