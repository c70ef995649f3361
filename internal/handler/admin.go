package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shoplite/shoplite/internal/repository"
	"github.com/shoplite/shoplite/internal/validation"
)

// AdminHandler bundles dependencies for role management endpoints. The
// router guards every route here with the session guard plus an "admin"
// role check.
type AdminHandler struct {
	Users *repository.UserRepo
	Roles *repository.RoleRepo
}

func NewAdminHandler(u *repository.UserRepo, r *repository.RoleRepo) *AdminHandler {
	return &AdminHandler{Users: u, Roles: r}
}

type ensureRoleReq struct {
	Name string `json:"name" validate:"required"`
}
type assignRoleReq struct {
	UserID   string `json:"user_id" validate:"required"`
	RoleName string `json:"role_name" validate:"required"`
}
type grantPermissionReq struct {
	RoleName       string `json:"role_name" validate:"required"`
	PermissionName string `json:"permission_name" validate:"required"`
}

// EnsureRole handles POST /v1/admin/roles/ensure: get-or-create by name.
func (h *AdminHandler) EnsureRole(c echo.Context) error {
	var req ensureRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validation.Respond(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.EnsureRole(ctx, req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ensure role failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": role.ID, "name": role.Name})
}

// AssignRole handles POST /v1/admin/assign-role. Assigning an already-held
// role is a no-op; a missing role is created first; a missing user is a 404.
func (h *AdminHandler) AssignRole(c echo.Context) error {
	var req assignRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validation.Respond(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	role, err := h.Roles.AssignRole(ctx, u.ID, req.RoleName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign role failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user_id": u.ID, "role_id": role.ID})
}

// GrantPermission handles POST /v1/admin/grant-permission, linking a role to
// a permission with ensure semantics on both sides.
func (h *AdminHandler) GrantPermission(c echo.Context) error {
	var req grantPermissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validation.Respond(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, perm, err := h.Roles.GrantPermission(ctx, req.RoleName, req.PermissionName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "grant permission failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"role_id": role.ID, "permission_id": perm.ID})
}

// DeleteUser handles DELETE /v1/admin/users/:id. Role assignments and
// refresh tokens go with the user through the foreign-key cascades, so no
// orphan rows survive.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Users.Delete(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
