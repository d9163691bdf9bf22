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

// OrderHandler manages orders, billing and feedback in the caller's
// tenant database.
type OrderHandler struct{}

// NewOrderHandler wires the order handlers.
func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// Create places an order with its items. Item prices are snapshotted
// from the menu at order time.
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}
	claims, _ := middleware.ClaimsFrom(c)

	var req struct {
		TableNumber int `json:"table_number"`
		Items       []struct {
			DishID         uint   `json:"menu_id"`
			Quantity       int    `json:"quantity"`
			SpecialRequest string `json:"special_request"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one item is required"})
	}

	order := model.Order{
		UserID:      claims.UserID,
		TableNumber: req.TableNumber,
		Status:      model.OrderStatusPending,
	}

	var total float64
	var items []model.OrderItem
	for _, item := range req.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		var dish model.Dish
		if result := handle.Conn.First(&dish, item.DishID); result.Error != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
		}
		if !dish.IsAvailable {
			return c.JSON(http.StatusConflict, echo.Map{"error": dish.Name + " is not available"})
		}

		price := dish.Price * float64(qty)
		total += price
		items = append(items, model.OrderItem{
			DishID:         dish.ID,
			ItemName:       dish.Name,
			Quantity:       qty,
			TotalPrice:     price,
			SpecialRequest: item.SpecialRequest,
			Status:         model.OrderStatusPending,
		})
	}
	order.TotalAmount = total
	order.Items = items

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := handle.Conn.Create(&order); result.Error != nil {
		log.Error("Failed to create order", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order creation failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order created successfully",
		"data":    order,
	})
}

// List returns orders with items, billing and feedback eagerly loaded.
func (h *OrderHandler) List(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var orders []model.Order
	result := handle.Conn.
		Preload("Items").
		Preload("Billing").
		Preload("Feedback").
		Preload("Waiter").
		Find(&orders)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}

// UpdateStatus moves an order through its lifecycle.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	switch req.Status {
	case model.OrderStatusPending, model.OrderStatusPreparing, model.OrderStatusReady, model.OrderStatusServed:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	var order model.Order
	if result := handle.Conn.First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	order.Status = req.Status
	if result := handle.Conn.Save(&order); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order updated successfully",
		"data":    order,
	})
}

// CreateBilling settles an order. One billing row per order; a second
// attempt is rejected by the unique index.
func (h *OrderHandler) CreateBilling(c echo.Context) error {
	log := logger.FromEcho(c)

	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	switch req.PaymentMethod {
	case "cash", "card", "upi", "wallet", "other":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	}

	var order model.Order
	if result := handle.Conn.First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	billing := model.Billing{
		OrderID:       order.ID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentStatusPaid,
	}
	if result := handle.Conn.Create(&billing); result.Error != nil {
		log.Error("Failed to create billing", zap.Error(result.Error))
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is already billed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Billing created successfully",
		"data":    billing,
	})
}

// CreateFeedback records customer feedback for an order. One row per
// order, enforced by the unique index.
func (h *OrderHandler) CreateFeedback(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req struct {
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email"`
		Rating        int    `json:"rating"`
		FoodRating    int    `json:"food_rating"`
		ServiceRating int    `json:"service_rating"`
		Comment       string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	var order model.Order
	if result := handle.Conn.First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	feedback := model.Feedback{
		OrderID:       order.ID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Rating:        req.Rating,
		FoodRating:    req.FoodRating,
		ServiceRating: req.ServiceRating,
		Comment:       req.Comment,
		IsPublic:      true,
	}
	if result := handle.Conn.Create(&feedback); result.Error != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "feedback already recorded for this order"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Feedback recorded successfully",
		"data":    feedback,
	})
}
