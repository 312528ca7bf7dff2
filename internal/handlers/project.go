package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projectzen/board-api/internal/dto"
	apierrors "github.com/projectzen/board-api/internal/errors"
	"github.com/projectzen/board-api/internal/middleware"
	"github.com/projectzen/board-api/internal/services"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name string `json:"name"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(req.Name, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListMyProjects returns every project the caller is a member of.
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListMyProjects(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	dtos := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = dto.ToProjectDTO(p)
	}
	c.JSON(http.StatusOK, dtos)
}

// AddMember adds a user to the project. Admins only.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	type MemberRequest struct {
		UserID uint64 `json:"userId" binding:"required"`
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.AddMember(projectID, userID, req.UserID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// RemoveMember removes a user from the project. Admins only; the creator
// can never be removed.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	type MemberRequest struct {
		UserID uint64 `json:"userId" binding:"required"`
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.RemoveMember(projectID, userID, req.UserID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// ListMembers returns a project's members. Any member may view them.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	users := make([]dto.UserDTO, len(members))
	for i, m := range members {
		users[i] = dto.ToUserDTO(m.User)
	}
	c.JSON(http.StatusOK, users)
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNameMissing):
		apierrors.BadRequest(c, "Project name is required")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectAdmin):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveCreator):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
