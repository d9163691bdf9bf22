package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Deep-1402/cafe/internal/tenancy"
	"github.com/Deep-1402/cafe/pkg/jwtutil"
	"github.com/Deep-1402/cafe/pkg/logger"
	"github.com/Deep-1402/cafe/prometheus"
)

// MasterHandler serves the master surface: signup (tenant
// provisioning) and owner login.
type MasterHandler struct {
	provisioner *tenancy.Provisioner
	directory   *tenancy.Directory
	jwt         *jwtutil.JWTUtil
}

// NewMasterHandler wires the master surface handlers.
func NewMasterHandler(provisioner *tenancy.Provisioner, directory *tenancy.Directory, jwt *jwtutil.JWTUtil) *MasterHandler {
	return &MasterHandler{provisioner: provisioner, directory: directory, jwt: jwt}
}

// Signup provisions a new tenant: directory record, physical database,
// schema, seed administrator.
func (h *MasterHandler) Signup(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.SignupCounter.Inc()

	var req tenancy.SignupData
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse signup request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Subdomain == "" || req.Email == "" || req.Password == "" || req.PlanID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subdomain, email, password and plan_id are required"})
	}
	if tenancy.SanitizeSubdomain(req.Subdomain) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subdomain has no valid characters"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	tenant, err := h.provisioner.Provision(c.Request().Context(), req)
	if err != nil {
		code := tenancy.CodeOf(err)
		prometheus.RecordTenancyError(code)
		switch code {
		case tenancy.CodeDuplicateTenant:
			prometheus.RecordProvision("duplicate")
		case tenancy.CodeProvisioningIncomplete:
			prometheus.RecordProvision("incomplete")
			// Operator attention required: the directory record exists
			// but the tenant database is unusable.
			log.Error("Tenant provisioning incomplete",
				zap.String("subdomain", req.Subdomain),
				zap.Error(err))
		default:
			prometheus.RecordProvision("error")
		}
		if code == "" {
			log.Error("Signup failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
		}
		return c.JSON(tenancy.HTTPStatus(err), echo.Map{"error": err.Error(), "code": code})
	}

	prometheus.RecordProvision("success")
	log.Info("Tenant provisioned",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("subdomain", tenant.Subdomain),
		zap.String("db_name", tenant.DBName))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tenant created successfully",
		"data": echo.Map{
			"tenant_id":       tenant.ID,
			"restaurant_name": tenant.RestaurantName,
			"subdomain":       tenant.Subdomain,
			"db_name":         tenant.DBName,
		},
	})
}

// Login authenticates a tenant owner against the directory record and
// issues a master-scope token.
func (h *MasterHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.WithLabelValues("master").Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := h.directory.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		code := tenancy.CodeOf(err)
		if code == tenancy.CodeTenantSuspended {
			return c.JSON(tenancy.HTTPStatus(err), echo.Map{"error": err.Error(), "code": code})
		}
		log.Warn("Owner login failed", zap.String("email", req.Email), zap.Error(err))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid owner password", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.jwt.GenerateMasterToken(tenant.Email, tenant.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Owner logged in", zap.String("email", tenant.Email), zap.String("subdomain", tenant.Subdomain))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"tenant": echo.Map{
			"tenant_id":       tenant.ID,
			"restaurant_name": tenant.RestaurantName,
			"subdomain":       tenant.Subdomain,
		},
	})
}
