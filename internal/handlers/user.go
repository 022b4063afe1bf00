package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kite-oss/task-schedule-api/internal/dto"
	apierrors "github.com/kite-oss/task-schedule-api/internal/errors"
	"github.com/kite-oss/task-schedule-api/internal/middleware"
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/policy"
	"github.com/kite-oss/task-schedule-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// ListUsers returns every account, ordered by role then department
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// CreateUser creates an account. Faculty may be created without a password
// and become assignable but unable to log in.
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)
	if !policy.CanManageUsers(actor) {
		apierrors.Forbidden(c, "")
		return
	}

	type CreateUserRequest struct {
		Name       string `json:"name"`
		Email      string `json:"email" binding:"required"`
		Role       string `json:"role" binding:"required"`
		Department string `json:"department"`
		Password   string `json:"password"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Role:       models.Role(req.Role),
		Department: req.Department,
		Password:   req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies the provided profile fields
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)
	if !policy.CanManageUsers(actor) {
		apierrors.Forbidden(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Role       *string `json:"role"`
		Department *string `json:"department"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.UpdateUser(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes an account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)
	if !policy.CanManageUsers(actor) {
		apierrors.Forbidden(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ResetPassword sets a new password for the caller's own account
func (h *UserHandler) ResetPassword(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ResetPasswordRequest struct {
		Password string `json:"password" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Password is required")
		return
	}

	if _, err := h.userService.ResetPassword(actor, id, req.Password); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
