package middleware

import (
	"errors"
	"os"
	"strings"

	"install_manager/constants"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected requires a valid access token from the cookie or the
// Authorization header.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Missing token", errors.New("no token"))
		}

		jwtToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", err)
		}

		c.Locals("user", jwtToken)
		return c.Next()
	}
}

// OptionalJWT parses a token when present but lets guests through.
func OptionalJWT() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			if cookie := c.Cookies("access_token"); cookie != "" {
				authHeader = "Bearer " + cookie
			}
		}

		if authHeader == "" {
			c.Locals("user", nil)
			return c.Next()
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.Locals("user", nil)
			return c.Next()
		}

		c.Locals("user", token)
		return c.Next()
	}
}

// RequireCapability resolves the actor and checks the role's capability
// matrix before the handler runs. The claim is stashed for handlers.
func RequireCapability(cap model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, account, ok := helper.RequireActor(c)
		if !ok {
			return nil
		}

		if !claim.Role.Can(cap) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("missing capability: "+string(cap)))
		}

		c.Locals("claim", claim)
		c.Locals("account", account)
		return c.Next()
	}
}
