package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/internal/middleware"
	"github.com/Deep-1402/cafe/internal/model"
	"github.com/Deep-1402/cafe/pkg/logger"
	"github.com/Deep-1402/cafe/prometheus"
)

// CategoryHandler manages menu categories in the caller's tenant
// database.
type CategoryHandler struct{}

// NewCategoryHandler wires the category handlers.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// Create adds a category.
func (h *CategoryHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	var existing model.Category
	if result := handle.Conn.Where("name = ?", req.Name).First(&existing); result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "category with this name already exists"})
	}

	category := model.Category{Name: req.Name, Description: req.Description}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := handle.Conn.Create(&category); result.Error != nil {
		log.Error("Failed to create category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category creation failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Category created successfully",
		"data":    category,
	})
}

// List returns all categories with their dishes.
func (h *CategoryHandler) List(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var categories []model.Category
	if result := handle.Conn.Preload("Dishes").Find(&categories); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": categories})
}

// Update modifies a category.
func (h *CategoryHandler) Update(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var category model.Category
	if result := handle.Conn.First(&category, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if result := handle.Conn.Save(&category); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Category updated successfully",
		"data":    category,
	})
}

// Delete soft-deletes a category.
func (h *CategoryHandler) Delete(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var category model.Category
	if result := handle.Conn.First(&category, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := handle.Conn.Delete(&category); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
