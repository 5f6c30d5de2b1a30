package auth

import "errors"

var (
	// ErrMissingToken is returned when no token was supplied.
	ErrMissingToken = errors.New("auth: missing token")

	// ErrInvalidToken is returned for malformed tokens, wrong signatures,
	// or tokens signed with an unexpected algorithm.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrExpiredToken is returned when the token's expiry has passed.
	ErrExpiredToken = errors.New("auth: token is expired")

	// ErrMissingSigningKey is returned when constructing a verifier
	// without a signing secret.
	ErrMissingSigningKey = errors.New("auth: missing signing key")
)
