package repository

import (
	"github.com/projectzen/board-api/internal/models"
	"gorm.io/gorm"
)

// GormActionLogRepository is a GORM implementation of ActionLogRepository
type GormActionLogRepository struct {
	db *gorm.DB
}

// NewActionLogRepository creates a new ActionLogRepository
func NewActionLogRepository(db *gorm.DB) ActionLogRepository {
	return &GormActionLogRepository{db: db}
}

// Create appends a log entry
func (r *GormActionLogRepository) Create(entry *models.ActionLog) error {
	return r.db.Create(entry).Error
}

// ListRecentByProject lists the newest entries for a project, capped at limit
func (r *GormActionLogRepository) ListRecentByProject(projectID uint64, limit int) ([]models.ActionLog, error) {
	var entries []models.ActionLog
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
