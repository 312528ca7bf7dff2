package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectzen/board-api/internal/dto"
	apierrors "github.com/projectzen/board-api/internal/errors"
	"github.com/projectzen/board-api/internal/middleware"
	"github.com/projectzen/board-api/internal/services"
)

// ActionHandler serves the per-project activity feed.
type ActionHandler struct {
	actionService *services.ActionService
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(actionService *services.ActionService) *ActionHandler {
	return &ActionHandler{
		actionService: actionService,
	}
}

// RecentActions returns the last twenty audit entries for a project,
// newest first.
func (h *ActionHandler) RecentActions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	entries, err := h.actionService.RecentActions(userID, projectID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrNotProjectMember):
			apierrors.Forbidden(c, "Access denied to this project")
		default:
			apierrors.InternalError(c, "Internal server error")
		}
		return
	}

	dtos := make([]dto.ActionLogDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = dto.ToActionLogDTO(entry)
	}
	c.JSON(http.StatusOK, dtos)
}
