package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"storefront/pkg/auth"
	"storefront/pkg/media"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func token(t *testing.T, verifier *auth.Verifier, staff bool) string {
	t.Helper()

	signed, err := verifier.Sign(auth.Claims{
		UserID:  "u1",
		IsStaff: staff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	return signed
}

func TestPermissions(t *testing.T) {
	verifier, err := auth.NewVerifier("test-secret")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(Authenticate(verifier))
	ok := func(c *fiber.Ctx) error { return c.SendString(auth.UserID(c.UserContext())) }
	app.Get("/public", AllowAny(), ok)
	app.Get("/private", IsAuthenticated(), ok)
	app.Get("/admin", IsAdmin(), ok)

	user := "Bearer " + token(t, verifier, false)
	staff := "Bearer " + token(t, verifier, true)

	tests := []struct {
		name           string
		path           string
		authorization  string
		expectedStatus int
		expectedCode   string
	}{
		{name: "anonymous public", path: "/public", expectedStatus: http.StatusOK},
		{name: "anonymous private", path: "/private", expectedStatus: http.StatusUnauthorized, expectedCode: "auth.not_authenticated"},
		{name: "user private", path: "/private", authorization: user, expectedStatus: http.StatusOK},
		{name: "user admin", path: "/admin", authorization: user, expectedStatus: http.StatusForbidden, expectedCode: "auth.permission_denied"},
		{name: "staff admin", path: "/admin", authorization: staff, expectedStatus: http.StatusOK},
		{name: "malformed header", path: "/public", authorization: "Token abc", expectedStatus: http.StatusUnauthorized, expectedCode: "auth.invalid_header"},
		{name: "invalid token on public route", path: "/public", authorization: "Bearer nope", expectedStatus: http.StatusUnauthorized, expectedCode: "auth.token_not_valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authorization != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.authorization)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.expectedCode != "" {
				var payload map[string]any
				require.NoError(t, json.Unmarshal(body, &payload))
				assert.Equal(t, tt.expectedCode, payload["code"])
				return
			}
			if tt.authorization != "" {
				assert.Equal(t, "u1", string(body))
			}
		})
	}
}

func TestRequestOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(RequestOrigin(), Logger(zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(media.BaseURLFrom(c.UserContext()))
	})

	req := httptest.NewRequest(http.MethodGet, "http://shop.example.com/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "http://shop.example.com", string(body))
}
