package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/internal/middleware"
	"github.com/Deep-1402/cafe/internal/model"
	"github.com/Deep-1402/cafe/pkg/logger"
)

// RoleHandler manages roles, modules and the permission grid in the
// caller's tenant database.
type RoleHandler struct{}

// NewRoleHandler wires the role handlers.
func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

// CreateRole adds a role.
func (h *RoleHandler) CreateRole(c echo.Context) error {
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

	role := model.Role{Name: req.Name, Description: req.Description}
	if result := handle.Conn.Create(&role); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role creation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Role created successfully",
		"data":    role,
	})
}

// ListRoles returns roles with their permissions.
func (h *RoleHandler) ListRoles(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var roles []model.Role
	if result := handle.Conn.Preload("Permissions").Find(&roles); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": roles})
}

// CreateModule adds a feature module permissions can be scoped to.
func (h *RoleHandler) CreateModule(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	var existing model.Module
	if result := handle.Conn.Where("name = ?", req.Name).First(&existing); result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "feature already exists"})
	}

	module := model.Module{Name: req.Name, Slug: req.Slug, Description: req.Description}
	if result := handle.Conn.Create(&module); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "module creation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Feature created successfully",
		"data":    module,
	})
}

// ListModules returns all feature modules.
func (h *RoleHandler) ListModules(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var modules []model.Module
	if result := handle.Conn.Find(&modules); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": modules})
}

// UpsertPermission sets one role x module capability row. The unique
// pair index keeps a single row per (role, module).
func (h *RoleHandler) UpsertPermission(c echo.Context) error {
	log := logger.FromEcho(c)

	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		RoleID    uint `json:"role_id"`
		ModuleID  uint `json:"module_id"`
		CanCreate bool `json:"can_create"`
		CanView   bool `json:"can_view"`
		CanEdit   bool `json:"can_edit"`
		CanDelete bool `json:"can_delete"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.RoleID == 0 || req.ModuleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_id and module_id are required"})
	}

	var role model.Role
	if result := handle.Conn.First(&role, req.RoleID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
	}
	var module model.Module
	if result := handle.Conn.First(&module, req.ModuleID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "module not found"})
	}

	var permission model.Permission
	result := handle.Conn.Where("role_id = ? AND module_id = ?", req.RoleID, req.ModuleID).First(&permission)
	permission.RoleID = req.RoleID
	permission.ModuleID = req.ModuleID
	permission.CanCreate = req.CanCreate
	permission.CanView = req.CanView
	permission.CanEdit = req.CanEdit
	permission.CanDelete = req.CanDelete

	if result.Error != nil {
		result = handle.Conn.Create(&permission)
	} else {
		result = handle.Conn.Save(&permission)
	}
	if result.Error != nil {
		log.Error("Failed to upsert permission", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "permission update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Permission saved successfully",
		"data":    permission,
	})
}

// ListPermissions returns the permission grid for one role.
func (h *RoleHandler) ListPermissions(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}

	roleID, err := strconv.Atoi(c.Param("roleID"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
	}

	var permissions []model.Permission
	result := handle.Conn.Preload("Module").Where("role_id = ?", roleID).Find(&permissions)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": permissions})
}
