package repository

import (
	"time"

	"github.com/projectzen/board-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithCreator creates a project and its creator membership atomically
	CreateWithCreator(project *models.Project) error

	// FindByID finds a project by ID with its members preloaded
	FindByID(id uint64) (*models.Project, error)

	// ListByMember lists projects the user belongs to, members preloaded
	ListByMember(userID uint64) ([]models.Project, error)

	// AddMember adds a member row to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member row from a project
	RemoveMember(projectID, userID uint64) error

	// ListMembers lists a project's members in join order, users preloaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindByProjectAndTitle finds a task by its project-scoped title
	FindByProjectAndTitle(projectID uint64, title string) (*models.Task, error)

	// ListByProject lists all tasks of a project, assignees preloaded
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// ListDueReminders lists tasks whose reminder has passed and which have
	// not been notified yet, assignees preloaded
	ListDueReminders(now time.Time) ([]models.Task, error)

	// MarkNotified sets the notified flag on a task
	MarkNotified(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// ListByTask lists a task's comments oldest first, authors preloaded
	ListByTask(taskID uint64) ([]models.Comment, error)
}

// ActionLogRepository defines the interface for audit log access
type ActionLogRepository interface {
	// Create appends a log entry
	Create(entry *models.ActionLog) error

	// ListRecentByProject lists the newest entries for a project, capped at limit
	ListRecentByProject(projectID uint64, limit int) ([]models.ActionLog, error)
}
