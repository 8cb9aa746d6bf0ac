// Package auth verifies bearer access tokens issued by the account service and
// carries the authenticated user through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const accessTokenType = "access"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongType     = errors.New("token is not an access token")
	ErrMissingSecret = errors.New("signing secret is empty")
)

type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type Verifier struct {
	key []byte
}

// NewVerifier fails on an empty secret: HS256 with an empty key would accept
// tokens anyone can mint.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{key: []byte(secret)}, nil
}

// Verify checks the HS256 signature, expiry and token type and returns the
// claims of a valid access token.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if v == nil || len(v.key) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingSecret)
	}

	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.TokenType != "" && claims.TokenType != accessTokenType {
		return nil, ErrWrongType
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	return claims, nil
}

// Sign issues a token for claims. The account service owns real issuance;
// this exists for tooling and tests.
func (v *Verifier) Sign(claims Claims) (string, error) {
	if v == nil || len(v.key) == 0 {
		return "", ErrMissingSecret
	}
	if claims.TokenType == "" {
		claims.TokenType = accessTokenType
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
}

type userKey struct{}

func WithUser(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userKey{}, claims)
}

func UserFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userKey{}).(*Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated user id, or "" for anonymous calls.
func UserID(ctx context.Context) string {
	if claims, ok := UserFrom(ctx); ok {
		return claims.UserID
	}
	return ""
}
