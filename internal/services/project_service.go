package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/repository"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectNameMissing = errors.New("project name is required")
	ErrNotProjectMember   = errors.New("you are not a member of this project")
	ErrNotProjectAdmin    = errors.New("only project admins can manage members")
	ErrAlreadyMember      = errors.New("user already in project")
	ErrCannotRemoveCreator = errors.New("cannot remove the project creator")
	ErrMemberNotFound     = errors.New("user is not a member of this project")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProject creates a project; the creator becomes its sole member and admin.
func (s *ProjectService) CreateProject(name string, creatorID uint64) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrProjectNameMissing
	}

	project := &models.Project{
		Name:      strings.TrimSpace(name),
		CreatorID: creatorID,
	}

	if err := s.projectRepo.CreateWithCreator(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(project.ID)
}

// GetProject returns a project with its members preloaded.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListMyProjects returns every project the user is a member of.
func (s *ProjectService) ListMyProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByMember(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// AddMember adds a user to a project. Only admins may do this; adding an
// existing member fails rather than duplicating the row.
func (s *ProjectService) AddMember(projectID, actorID, userID uint64) (*models.Project, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsAdmin(actorID) {
		return nil, ErrNotProjectAdmin
	}
	if project.IsMember(userID) {
		return nil, ErrAlreadyMember
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.GetProject(projectID)
}

// RemoveMember removes a user from a project. Only admins may do this; the
// creator can never be removed, regardless of who asks.
func (s *ProjectService) RemoveMember(projectID, actorID, userID uint64) (*models.Project, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsAdmin(actorID) {
		return nil, ErrNotProjectAdmin
	}
	if userID == project.CreatorID {
		return nil, ErrCannotRemoveCreator
	}
	if !project.IsMember(userID) {
		return nil, ErrMemberNotFound
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	return s.GetProject(projectID)
}

// ListMembers returns a project's members in join order. Any member may
// view the list.
func (s *ProjectService) ListMembers(projectID, actorID uint64) ([]models.ProjectMember, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsMember(actorID) {
		return nil, ErrNotProjectMember
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
