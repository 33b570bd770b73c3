package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"segmentReco/pkg/logger"
	jsonres "segmentReco/pkg/response"
	"segmentReco/pkg/utils"

	"github.com/labstack/echo/v4"
)

// TokenValidator checks that a token is still registered as a live session.
type TokenValidator interface {
	ValidateTokenFromRedis(ctx context.Context, token string) (string, error)
}

// AuthMiddleware accepts any well formed, unexpired JWT.
func AuthMiddleware() echo.MiddlewareFunc {
	return AuthMiddlewareWithRedis(nil)
}

// AuthMiddlewareWithRedis additionally requires the token to be present in
// the session store, so logged-out tokens are rejected. A nil validator skips
// the session lookup.
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return deny(c, http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return deny(c, http.StatusUnauthorized, "Invalid authorization format")
			}
			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("failed to parse JWT", "error", err)
				return deny(c, http.StatusUnauthorized, "Invalid token")
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || expAt == nil || time.Now().After(expAt.Time) {
				return deny(c, http.StatusForbidden, "Token expired")
			}

			if tokenValidator != nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()

				userID, err := tokenValidator.ValidateTokenFromRedis(ctx, tokenString)
				if err != nil {
					logger.Warn("token not found in session store", "error", err)
					return deny(c, http.StatusUnauthorized, "Token expired or invalid")
				}
				if userID != claims.UserID {
					logger.Warn("user id mismatch between token and session", "token_user", claims.UserID, "session_user", userID)
					return deny(c, http.StatusUnauthorized, "Invalid token")
				}
			}

			userID, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil {
				logger.Warn("invalid user id in token", "user_id", claims.UserID, "error", err)
				return deny(c, http.StatusForbidden, "Invalid user ID in token")
			}

			c.Set("user_id", uint(userID))
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !strings.EqualFold(role, "admin") {
				return deny(c, http.StatusForbidden, "Admin access required")
			}

			return next(c)
		}
	}
}

func deny(c echo.Context, status int, msg string) error {
	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	return c.JSON(status, jsonres.Error(code, msg, nil))
}
