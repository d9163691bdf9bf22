package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/internal/tenancy"
	"github.com/Deep-1402/cafe/pkg/jwtutil"
	"github.com/Deep-1402/cafe/pkg/logger"
	"github.com/Deep-1402/cafe/prometheus"
)

// ResolveTenant resolves the authenticated caller's tenant database
// and stores the handle on the context. Everything behind it can
// assume a ready-to-use connection. Runs after JWTAuthMiddleware.
func ResolveTenant(resolver *tenancy.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			claims, ok := ClaimsFrom(c)
			if !ok || claims.Scope != jwtutil.ScopeTenant {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant access required"})
			}

			key := claims.Subdomain
			if key == "" {
				key = claims.Email
			}

			start := time.Now()
			handle, err := resolver.Resolve(c.Request().Context(), key)
			prometheus.ResolveDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				code := tenancy.CodeOf(err)
				prometheus.RecordTenancyError(code)
				switch code {
				case tenancy.CodeTenantNotFound:
					prometheus.RecordResolve("not_found")
				case tenancy.CodeTenantSuspended:
					prometheus.RecordResolve("suspended")
				default:
					prometheus.RecordResolve("error")
				}
				log.Warn("Tenant resolution failed",
					zap.String("key", key),
					zap.String("code", code),
					zap.Error(err))
				return c.JSON(tenancy.HTTPStatus(err), echo.Map{"error": err.Error(), "code": code})
			}
			outcome := "hit"
			if handle.Opened {
				outcome = "opened"
			}
			prometheus.RecordResolve(outcome)
			prometheus.OpenTenantConnectionsGauge.Set(float64(resolver.ConnectionCount()))

			c.Set(HandleKey, handle)
			return next(c)
		}
	}
}

// HandleFrom pulls the resolved tenant handle off the context.
func HandleFrom(c echo.Context) (*tenancy.Handle, bool) {
	handle, ok := c.Get(HandleKey).(*tenancy.Handle)
	return handle, ok
}
