// Package security authenticates API callers.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crowdfund/internal/core/domain"
)

// ErrInvalidToken is returned for tokens that fail verification or carry
// no subject.
var ErrInvalidToken = errors.New("invalid bearer token")

// JWTVerifier checks HS256 bearer tokens. The token subject is the caller's
// account.
type JWTVerifier struct {
	secret []byte
	issuer string
	nowFn  func() time.Time
}

// NewJWTVerifier builds a verifier for secret. When issuer is set, tokens
// must carry a matching iss claim.
func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, nowFn: time.Now}, nil
}

// Verify parses raw and returns the account it was issued to.
func (v *JWTVerifier) Verify(raw string) (domain.Account, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
		jwt.WithTimeFunc(v.nowFn),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	account, err := domain.ParseAccount(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return account, nil
}

// Sign issues a token for account valid for ttl. It is used by the demo
// tooling and by tests.
func (v *JWTVerifier) Sign(account domain.Account, ttl time.Duration) (string, error) {
	now := v.nowFn()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   account.String(),
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(v.secret)
}
