package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/kite-oss/task-schedule-api/internal/errors"
	"github.com/kite-oss/task-schedule-api/internal/middleware"
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// accountPayload is the authenticated-account shape shared by login and
// the info endpoint.
func accountPayload(u models.User) gin.H {
	name := u.Name
	if name == "" {
		name = u.Email
	}
	return gin.H{
		"id":           u.ID,
		"name":         name,
		"email":        u.Email,
		"role":         u.Role,
		"department":   u.Department,
		"is_superuser": u.IsSuperuser,
	}
}

// Login verifies credentials and issues a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and password are required")
		return
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.RespondWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Invalid email or password"))
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"staff": accountPayload(*user),
	})
}

// Info returns the authenticated account
func (h *AuthHandler) Info(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, accountPayload(user))
}
