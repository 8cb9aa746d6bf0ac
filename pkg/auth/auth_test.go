package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier(t *testing.T) {
	verifier, err := NewVerifier("test-secret")
	require.NoError(t, err)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	valid, err := verifier.Sign(Claims{UserID: "u1", Email: "a@b.c", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}})
	require.NoError(t, err)

	expired, err := verifier.Sign(Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past}})
	require.NoError(t, err)

	refresh, err := verifier.Sign(Claims{UserID: "u1", TokenType: "refresh", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}})
	require.NoError(t, err)

	other, err := NewVerifier("other-secret")
	require.NoError(t, err)
	foreign, err := other.Sign(Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}})
	require.NoError(t, err)

	anonymous, err := verifier.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid access token", token: valid},
		{name: "expired", token: expired, wantErr: ErrInvalidToken},
		{name: "refresh token", token: refresh, wantErr: ErrWrongType},
		{name: "wrong signing key", token: foreign, wantErr: ErrInvalidToken},
		{name: "missing user id", token: anonymous, wantErr: ErrInvalidToken},
		{name: "garbage", token: "not-a-jwt", wantErr: ErrInvalidToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := verifier.Verify(tc.token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
			assert.Equal(t, "a@b.c", claims.Email)
			assert.Equal(t, "access", claims.TokenType)
		})
	}
}

func TestVerifier_EmptySecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.ErrorIs(t, err, ErrMissingSecret)

	// A token signed with an empty key must not pass a zero-value verifier.
	claims := Claims{
		UserID:           "intruder",
		IsStaff:          true,
		TokenType:        accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte{})
	require.NoError(t, err)

	var empty Verifier
	got, err := empty.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, got)

	_, err = empty.Sign(claims)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", UserID(ctx))

	_, ok := UserFrom(ctx)
	assert.False(t, ok)

	ctx = WithUser(ctx, &Claims{UserID: "u42", IsStaff: true})
	claims, ok := UserFrom(ctx)
	require.True(t, ok)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "u42", UserID(ctx))
}
