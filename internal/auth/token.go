// ABOUTME: JWT token generation and verification for bearer authentication
// ABOUTME: Uses HS256 signing with a startup-loaded symmetric secret

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum number of bytes for the signing secret.
const MinSecretLength = 32

// ErrSecretTooShort is returned by NewJWTVerifier for weak secrets.
var ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

// TokenVerifier defines the interface for token verification
type TokenVerifier interface {
	Verify(tokenString string) (subject string, err error)
}

// TokenIssuer defines the interface for token generation
type TokenIssuer interface {
	Generate(subject string, ttl time.Duration) (string, error)
}

// JWTVerifier issues and verifies HS256 signed JWTs. The secret is fixed
// at construction; tokens carry only sub/iat/exp, so validity is purely a
// function of signature and expiry at verification time.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a new JWT verifier with the given secret.
func NewJWTVerifier(secret []byte) (*JWTVerifier, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &JWTVerifier{secret: secret}, nil
}

// Generate creates a new signed token for the given subject with expiration.
func (v *JWTVerifier) Generate(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify validates the token and extracts the subject from the "sub" claim.
// Failures map to ErrTokenExpired, ErrBadSignature, or ErrTokenMalformed.
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Only HS256-family tokens are accepted
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrBadSignature
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return "", ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: missing sub claim", ErrTokenMalformed)
	}

	return sub, nil
}
