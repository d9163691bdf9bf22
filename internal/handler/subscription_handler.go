package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
	"github.com/Deep-1402/cafe/internal/tenancy"
	"github.com/Deep-1402/cafe/pkg/logger"
	"github.com/Deep-1402/cafe/prometheus"
)

// SubscriptionHandler manages subscription plans in the master
// database.
type SubscriptionHandler struct {
	db        *gorm.DB
	directory *tenancy.Directory
}

// NewSubscriptionHandler wires the subscription-plan handlers over the
// master database.
func NewSubscriptionHandler(db *gorm.DB, directory *tenancy.Directory) *SubscriptionHandler {
	return &SubscriptionHandler{db: db, directory: directory}
}

// Create adds a subscription plan.
func (h *SubscriptionHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
		MaxUsers    int     `json:"max_users"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !model.ValidPlanName(req.Name) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be one of Basic, Standard, Premium"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}
	if req.MaxUsers < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_users must be at least 1"})
	}

	plan := model.SubscriptionPlan{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		MaxUsers:    req.MaxUsers,
		IsActive:    true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&plan); result.Error != nil {
		log.Error("Failed to create subscription plan", zap.Error(result.Error))
		return c.JSON(http.StatusConflict, echo.Map{"error": "a plan with this name already exists"})
	}

	log.Info("Subscription plan created", zap.String("name", plan.Name), zap.Uint("id", plan.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Subscription plan created successfully",
		"data":    plan,
	})
}

// Update modifies a subscription plan.
func (h *SubscriptionHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan id"})
	}

	var plan model.SubscriptionPlan
	if result := h.db.First(&plan, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription plan not found"})
	}

	var req struct {
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		MaxUsers    *int     `json:"max_users"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Price != nil {
		if *req.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
		}
		plan.Price = *req.Price
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.MaxUsers != nil {
		if *req.MaxUsers < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_users must be at least 1"})
		}
		plan.MaxUsers = *req.MaxUsers
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := h.db.Save(&plan); result.Error != nil {
		log.Error("Failed to update subscription plan", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Subscription plan updated successfully",
		"data":    plan,
	})
}

// Delete removes a plan. Deletion is rejected, not cascaded, while any
// tenant still references the plan.
func (h *SubscriptionHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan id"})
	}

	var plan model.SubscriptionPlan
	if result := h.db.First(&plan, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription plan not found"})
	}

	count, err := h.directory.CountByPlan(c.Request().Context(), plan.ID)
	if err != nil {
		log.Error("Failed to count plan references", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "plan is referenced by existing tenants and cannot be deleted",
			"code":  "plan_in_use",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := h.db.Delete(&plan); result.Error != nil {
		log.Error("Failed to delete subscription plan", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	log.Info("Subscription plan deleted", zap.Uint("id", plan.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Subscription plan deleted successfully"})
}

// GetByID returns one plan with its subscribed tenants.
func (h *SubscriptionHandler) GetByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan id"})
	}

	var plan model.SubscriptionPlan
	if result := h.db.First(&plan, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription plan not found"})
	}

	var tenants []model.Tenant
	result := h.db.Select("id", "restaurant_name", "subdomain", "email", "is_active", "end_date", "created_at").
		Where("plan_id = ?", plan.ID).
		Find(&tenants)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":    plan,
		"tenants": tenants,
	})
}

// List returns all plans.
func (h *SubscriptionHandler) List(c echo.Context) error {
	var plans []model.SubscriptionPlan
	if result := h.db.Find(&plans); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": plans})
}
