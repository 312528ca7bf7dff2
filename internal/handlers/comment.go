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

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns a task's comments oldest first, visible to the
// task's creator and assignee.
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "User not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(userID, taskID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	dtos := make([]dto.CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = dto.ToCommentDTO(comment)
	}
	c.JSON(http.StatusOK, dtos)
}

// PostComment adds a comment to a task.
func (h *CommentHandler) PostComment(c *gin.Context) {
	actor, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "User not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	type PostCommentRequest struct {
		Message string `json:"message"`
	}

	var req PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.PostComment(actor, taskID, req.Message)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyComment):
		apierrors.BadRequest(c, "Message cannot be empty")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskParticipant):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
