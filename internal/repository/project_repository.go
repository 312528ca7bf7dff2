package repository

import (
	"time"

	"github.com/projectzen/board-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithCreator creates the project and its creator membership in one
// transaction. The creator is always a member and always an admin.
func (r *GormProjectRepository) CreateWithCreator(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.CreatorID,
			Admin:     true,
			JoinedAt:  time.Now(),
		}
		return tx.Create(member).Error
	})
}

// FindByID finds a project by ID with its members preloaded
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_members.joined_at ASC")
		}).
		Preload("Members.User").
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByMember lists projects the user belongs to, members preloaded
func (r *GormProjectRepository) ListByMember(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	memberSubQuery := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	if err := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_members.joined_at ASC")
		}).
		Preload("Members.User").
		Where("id IN (?)", memberSubQuery).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// AddMember adds a member row to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member row from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// ListMembers lists a project's members in join order, users preloaded
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
