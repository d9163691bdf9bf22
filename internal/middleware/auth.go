package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/pkg/jwtutil"
	"github.com/Deep-1402/cafe/pkg/logger"
)

// Context keys populated by the middleware chain.
const (
	ClaimsKey = "claims"
	HandleKey = "tenant_handle"
)

// JWTAuthMiddleware validates the bearer token and stores the claims
// on the context.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}

			c.Set(ClaimsKey, claims)
			log.Debug("JWT token validated successfully",
				zap.Uint("user_id", claims.UserID),
				zap.String("email", claims.Email),
				zap.String("scope", claims.Scope))

			return next(c)
		}
	}
}

// RequireMasterScope rejects tokens issued for tenant staff.
func RequireMasterScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(*jwtutil.UserClaims)
			if !ok || claims.Scope != jwtutil.ScopeMaster {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "master access required"})
			}
			return next(c)
		}
	}
}

// ClaimsFrom pulls the validated claims off the context.
func ClaimsFrom(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*jwtutil.UserClaims)
	return claims, ok
}
