package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/middleware"
	"github.com/Deep-1402/cafe/internal/model"
	"github.com/Deep-1402/cafe/internal/tenancy"
	"github.com/Deep-1402/cafe/pkg/jwtutil"
	"github.com/Deep-1402/cafe/pkg/logger"
	"github.com/Deep-1402/cafe/prometheus"
)

// TenantAuthHandler serves tenant staff login and user management.
// Login resolves the tenant itself since it runs before any JWT
// exists; the rest reads the handle resolved by the middleware.
type TenantAuthHandler struct {
	resolver *tenancy.Resolver
	masterDB *gorm.DB
	jwt      *jwtutil.JWTUtil
}

// NewTenantAuthHandler wires the tenant auth handlers.
func NewTenantAuthHandler(resolver *tenancy.Resolver, masterDB *gorm.DB, jwt *jwtutil.JWTUtil) *TenantAuthHandler {
	return &TenantAuthHandler{resolver: resolver, masterDB: masterDB, jwt: jwt}
}

// Login authenticates a staff user inside the tenant database resolved
// from the email.
func (h *TenantAuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.WithLabelValues("tenant").Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	handle, err := h.resolver.Resolve(c.Request().Context(), req.Email)
	if err != nil {
		code := tenancy.CodeOf(err)
		prometheus.RecordTenancyError(code)
		log.Warn("Tenant resolution failed on login",
			zap.String("email", req.Email),
			zap.String("code", code),
			zap.Error(err))
		return c.JSON(tenancy.HTTPStatus(err), echo.Map{"error": err.Error(), "code": code})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.StaffUser
	if result := handle.Conn.Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Warn("Staff user not found", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "your account has been deactivated, contact the administrator"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	token, err := h.jwt.GenerateTenantToken(user.Email, user.ID, user.RoleID, handle.Tenant.Subdomain)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Staff user logged in",
		zap.String("email", user.Email),
		zap.String("subdomain", handle.Tenant.Subdomain))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome, " + user.Username + "!",
		"data": echo.Map{
			"user":  user,
			"token": token,
		},
	})
}

// CreateUser adds a staff user to the tenant, enforcing the
// subscription plan's seat limit.
func (h *TenantAuthHandler) CreateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		RoleID   uint   `json:"role_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.RoleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email, password and role_id are required"})
	}

	var role model.Role
	if result := handle.Conn.First(&role, req.RoleID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
	}

	var existing model.StaffUser
	if result := handle.Conn.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	}

	// Seat limit comes from the master-side subscription plan.
	var plan model.SubscriptionPlan
	if result := h.masterDB.First(&plan, handle.Tenant.PlanID); result.Error == nil {
		var seats int64
		handle.Conn.Model(&model.StaffUser{}).Count(&seats)
		if seats >= int64(plan.MaxUsers) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "user limit for the current subscription plan reached",
				"code":  "plan_seats_exhausted",
			})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	user := model.StaffUser{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		RoleID:   req.RoleID,
		IsActive: true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := handle.Conn.Create(&user); result.Error != nil {
		log.Error("Failed to create staff user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	log.Info("Staff user created",
		zap.String("email", user.Email),
		zap.String("subdomain", handle.Tenant.Subdomain))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"data":    echo.Map{"user": user},
	})
}

// ListUsers returns the tenant's staff users with their roles.
func (h *TenantAuthHandler) ListUsers(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var users []model.StaffUser
	if result := handle.Conn.Preload("Role").Find(&users); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": users})
}
