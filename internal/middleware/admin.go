package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/internal/model"
	"github.com/Deep-1402/cafe/pkg/logger"
)

// RequireAdmin gates tenant routes to staff users holding the Admin
// role. Runs after ResolveTenant.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			claims, ok := ClaimsFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			handle, ok := HandleFrom(c)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
			}

			var role model.Role
			if err := handle.Conn.First(&role, claims.RoleID).Error; err != nil {
				log.Warn("Role lookup failed", zap.Uint("role_id", claims.RoleID), zap.Error(err))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			if role.Name != model.DefaultAdminRole {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}

			return next(c)
		}
	}
}
