package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/kite-oss/task-schedule-api/internal/errors"
	"github.com/kite-oss/task-schedule-api/internal/services"
)

// respondServiceError translates the service error taxonomy into the
// uniform API error envelope. Unrecognized errors become a 500 with a
// generic message.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var assigneeErr *services.UnknownAssigneeError

	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied),
		errors.Is(err, services.ErrCompletedRestricted),
		errors.Is(err, services.ErrCommentsForbidden),
		errors.Is(err, services.ErrNotOwnPassword):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, validationErr.Message, gin.H{"field": validationErr.Field})
	case errors.As(err, &assigneeErr):
		apierrors.BadRequestWithDetails(c, assigneeErr.Error(), gin.H{"email": assigneeErr.Email})
	default:
		apierrors.InternalError(c, "")
	}
}
