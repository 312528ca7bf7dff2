package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/projectzen/board-api/internal/constants"
	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/repository"
)

// ActionService exposes the per-project activity feed.
type ActionService struct {
	actionRepo  repository.ActionLogRepository
	projectRepo repository.ProjectRepository
}

// NewActionService creates a new ActionService
func NewActionService(actionRepo repository.ActionLogRepository, projectRepo repository.ProjectRepository) *ActionService {
	return &ActionService{
		actionRepo:  actionRepo,
		projectRepo: projectRepo,
	}
}

// RecentActions returns the newest audit entries for a project, capped at
// twenty, visible to members only.
func (s *ActionService) RecentActions(actorID, projectID uint64) ([]models.ActionLog, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !project.IsMember(actorID) {
		return nil, ErrNotProjectMember
	}

	entries, err := s.actionRepo.ListRecentByProject(projectID, constants.RecentActionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return entries, nil
}
