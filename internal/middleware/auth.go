package middleware

import (
	"errors"
	"storefront/pkg/auth"
	"storefront/pkg/httperror"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Authenticate attaches the bearer token's claims to the user context. A
// request without a token continues anonymously; a bad token is rejected.
func Authenticate(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return c.Next()
		}

		scheme, token, ok := strings.Cut(authorization, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return reject(c, httperror.Unauthorized(
				"auth.invalid_header",
				"Authorization header must be 'Bearer <token>'",
				nil,
			))
		}

		claims, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			code := "auth.token_not_valid"
			if errors.Is(err, auth.ErrWrongType) {
				code = "auth.token_wrong_type"
			}
			return reject(c, httperror.Unauthorized(code, "Given token not valid for any token type", nil))
		}

		c.SetUserContext(auth.WithUser(c.UserContext(), claims))
		return c.Next()
	}
}

// AllowAny lets every caller through.
func AllowAny() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}

func IsAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := auth.UserFrom(c.UserContext()); !ok {
			return reject(c, notAuthenticated())
		}
		return c.Next()
	}
}

// IsAdmin admits staff users only.
func IsAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := auth.UserFrom(c.UserContext())
		if !ok {
			return reject(c, notAuthenticated())
		}
		if !claims.IsStaff {
			return reject(c, httperror.Forbidden(
				"auth.permission_denied",
				"You do not have permission to perform this action",
				nil,
			))
		}
		return c.Next()
	}
}

func notAuthenticated() *httperror.Error {
	return httperror.Unauthorized(
		"auth.not_authenticated",
		"Authentication credentials were not provided",
		nil,
	)
}

func reject(c *fiber.Ctx, err *httperror.Error) error {
	if err.Status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
	}
	return c.Status(err.Status).JSON(err.Payload())
}
