// Package auth implements the credential primitives of the server: password
// hashing and the signed, expiring bearer tokens handed out at login.
package auth

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/dmitrijs2005/stakr/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL applies when Issue is called without a positive ttl.
	DefaultTokenTTL = 15 * time.Minute

	// SubjectClaim holds the user's email.
	SubjectClaim = "sub"
)

var signingMethod = jwt.SigningMethodHS256

// TokenCodec issues and decodes HS256 JWTs carrying an arbitrary claims map.
// Its fields are fixed at construction; rotating the secret means building a
// new codec, which invalidates every token issued by the old one.
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec returns a codec signing with secretKey. A non-positive
// defaultTTL is replaced with DefaultTokenTTL.
func NewTokenCodec(secretKey []byte, defaultTTL time.Duration) *TokenCodec {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenCodec{secret: secretKey, defaultTTL: defaultTTL, now: time.Now}
}

// Issue signs a copy of claims with an "exp" claim set to now+ttl.
func (c *TokenCodec) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	payload := jwt.MapClaims{}
	maps.Copy(payload, claims)
	payload["exp"] = jwt.NewNumericDate(c.now().Add(ttl))

	tokenString, err := jwt.NewWithClaims(signingMethod, payload).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Decode verifies the token signature, algorithm and expiry and returns its
// claims. Every failure wraps common.ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidToken, reason(err))
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// reason shortens jwt parse errors to a stable description.
func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature invalid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return "rejected"
	}
}
