package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kite-oss/task-schedule-api/internal/dto"
	"github.com/kite-oss/task-schedule-api/internal/middleware"
	"github.com/kite-oss/task-schedule-api/internal/services"
	"github.com/kite-oss/task-schedule-api/internal/utils"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// Recent returns the activity feed: the latest ledger entries for visible
// tasks plus the latest follow-up comments where the role is allowed them
func (h *HistoryHandler) Recent(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	feed, err := h.historyService.Recent(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": dto.ToActivityDTOs(feed.Entries),
		"comments":   dto.ToCommentDTOs(feed.Comments),
	})
}

// TaskComments returns the follow-up comments on one task
func (h *HistoryHandler) TaskComments(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.historyService.TaskComments(id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentDTOs(entries)})
}

// AllComments returns the paginated comment feed over the caller's scope
func (h *HistoryHandler) AllComments(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	params := utils.GetPaginationParams(c)

	entries, total, err := h.historyService.AllComments(actor, params.Offset, params.PageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   dto.ToCommentDTOs(entries),
		"pagination": utils.NewPaginationResponse(params, total),
	})
}
