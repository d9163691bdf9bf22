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

// DishHandler manages menu dishes in the caller's tenant database.
type DishHandler struct{}

// NewDishHandler wires the dish handlers.
func NewDishHandler() *DishHandler {
	return &DishHandler{}
}

// Create adds a dish under an existing category.
func (h *DishHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		CategoryID      uint    `json:"category_id"`
		Name            string  `json:"name"`
		Description     string  `json:"description"`
		Price           float64 `json:"price"`
		PreparationTime int     `json:"preparation_time"`
		IsVegetarian    *bool   `json:"is_vegetarian"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CategoryID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id, name and price are required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}

	var category model.Category
	if result := handle.Conn.First(&category, req.CategoryID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	dish := model.Dish{
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		PreparationTime: req.PreparationTime,
		IsVegetarian:    req.IsVegetarian == nil || *req.IsVegetarian,
		IsAvailable:     true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := handle.Conn.Create(&dish); result.Error != nil {
		log.Error("Failed to create dish", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "dish creation failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Dish created successfully",
		"data":    dish,
	})
}

// List returns dishes, optionally filtered to available ones.
func (h *DishHandler) List(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	query := handle.Conn.Preload("Category")
	if c.QueryParam("available") == "true" {
		query = query.Where("is_available = ?", true)
	}

	var dishes []model.Dish
	if result := query.Find(&dishes); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": dishes})
}

// Update modifies a dish.
func (h *DishHandler) Update(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dish id"})
	}

	var dish model.Dish
	if result := handle.Conn.First(&dish, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
	}

	var req struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		Price           *float64 `json:"price"`
		PreparationTime *int     `json:"preparation_time"`
		IsVegetarian    *bool    `json:"is_vegetarian"`
		IsAvailable     *bool    `json:"is_available"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Price != nil {
		if *req.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
		}
		dish.Price = *req.Price
	}
	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.PreparationTime != nil {
		dish.PreparationTime = *req.PreparationTime
	}
	if req.IsVegetarian != nil {
		dish.IsVegetarian = *req.IsVegetarian
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}

	if result := handle.Conn.Save(&dish); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Dish updated successfully",
		"data":    dish,
	})
}

// Delete soft-deletes a dish.
func (h *DishHandler) Delete(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dish id"})
	}

	var dish model.Dish
	if result := handle.Conn.First(&dish, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
	}

	if result := handle.Conn.Delete(&dish); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Dish deleted successfully"})
}
