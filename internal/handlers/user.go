package handlers

import (
	"errors"
	"net/http"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
	roleService RoleServiceInterface
	notifier    *Notifier
}

func NewUserHandler(userService UserServiceInterface, roleService RoleServiceInterface, notifier *Notifier) *UserHandler {
	return &UserHandler{userService: userService, roleService: roleService, notifier: notifier}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		writeError(c, http.StatusNotFound, CodeNotFound, "user not found")
		return
	}

	role, err := h.roleService.GetRole(ctx, userID)
	if err != nil && !errors.Is(err, services.ErrRoleNotFound) {
		writeInternal(c, err, "failed to load role")
		return
	}

	_ = c.JSON(http.StatusOK, userResponse(user, role))
}

// UpdateMe changes the display name and avatar. Absent or empty values keep
// the stored ones.
func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.UpdateProfile(ctx, userID, req.DisplayName, req.AvatarURL)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(c, http.StatusNotFound, CodeNotFound, "user not found")
		return
	}
	if err != nil {
		writeInternal(c, err, "failed to update user")
		return
	}

	role, err := h.roleService.GetRole(ctx, userID)
	if err != nil && !errors.Is(err, services.ErrRoleNotFound) {
		writeInternal(c, err, "failed to load role")
		return
	}

	resp := userResponse(user, role)
	h.notifier.Notify(ctx, dto.SessionEvent{
		Type:   dto.EventProfileUpdated,
		UserID: userID,
		User:   &resp,
	})

	_ = c.JSON(http.StatusOK, resp)
}

// GetRole returns the role record of a user. Users may read their own; admins
// may read anyone's.
func (h *UserHandler) GetRole(c *drift.Context) {
	callerID := middleware.GetUserID(c)
	if callerID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid user id")
		return
	}

	ctx := c.Request.Context()

	if targetID != callerID {
		isAdmin, err := h.roleService.IsAdmin(ctx, callerID)
		if err != nil {
			writeInternal(c, err, "admin check failed")
			return
		}
		if !isAdmin {
			writeError(c, http.StatusForbidden, CodeForbidden, msgForbidden)
			return
		}
	}

	role, err := h.roleService.GetRole(ctx, targetID)
	if errors.Is(err, services.ErrRoleNotFound) {
		writeError(c, http.StatusNotFound, CodeRoleNotFound, "role not found")
		return
	}
	if err != nil {
		writeInternal(c, err, "failed to load role")
		return
	}

	_ = c.JSON(http.StatusOK, dto.RoleResponse{UserID: targetID, Role: role})
}
