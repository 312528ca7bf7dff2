package repository

import (
	"time"

	"github.com/projectzen/board-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByProjectAndTitle finds a task by its project-scoped title
func (r *GormTaskRepository) FindByProjectAndTitle(projectID uint64, title string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("project_id = ? AND title = ?", projectID, title).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists all tasks of a project, assignees preloaded
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// ListDueReminders lists tasks whose reminder has passed and which have not
// been notified yet, assignees preloaded
func (r *GormTaskRepository) ListDueReminders(now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("Assignee").
		Where("reminder IS NOT NULL AND reminder <= ? AND notified = ?", now, false).
		Order("reminder ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkNotified sets the notified flag on a task
func (r *GormTaskRepository) MarkNotified(id uint64) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update("notified", true).Error
}
