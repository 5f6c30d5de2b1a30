// Package auth verifies bearer tokens presented during the gateway
// handshake and resolves them to a user identity.
//
// Token issuance is owned by the main API service; this subsystem only
// consumes tokens. The Verifier interface keeps the gateway decoupled from
// the token format, and JWTVerifier provides the production implementation
// sharing the API's HMAC signing secret.
package auth
