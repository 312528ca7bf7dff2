package dto

import (
	"time"

	"github.com/projectzen/board-api/internal/models"
)

// UserDTO represents a user's public identity in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned from register and login
type AuthResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// ProjectMemberDTO represents a member row in API responses
type ProjectMemberDTO struct {
	User     UserDTO   `json:"user"`
	Admin    bool      `json:"admin"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        uint64             `json:"id"`
	Name      string             `json:"name"`
	CreatorID uint64             `json:"creator_id"`
	CreatedAt time.Time          `json:"created_at"`
	Members   []ProjectMemberDTO `json:"members,omitempty"`
}

// TaskDTO represents a task in API responses, with the assignee resolved
// when one is set.
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	AssignedTo   *uint64             `json:"assigned_to"`
	Assignee     *UserDTO            `json:"assignee,omitempty"`
	CreatorID    uint64              `json:"creator_id"`
	ProjectID    uint64              `json:"project_id"`
	GithubLink   string              `json:"github_link,omitempty"`
	YoutubeLink  string              `json:"youtube_link,omitempty"`
	DatabaseLink string              `json:"database_link,omitempty"`
	Deadline     *time.Time          `json:"deadline"`
	Reminder     *time.Time          `json:"reminder"`
	Notified     bool                `json:"notified"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CommentDTO represents a comment with its author resolved
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	User      UserDTO   `json:"user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionLogDTO represents an audit entry with its actor resolved
type ActionLogDTO struct {
	ID          uint64            `json:"id"`
	ActionType  models.ActionType `json:"action_type"`
	TaskID      uint64            `json:"task_id"`
	ProjectID   uint64            `json:"project_id"`
	User        UserDTO           `json:"user"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}

// ToProjectMemberDTO converts a ProjectMember model to ProjectMemberDTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		Admin:    member.Admin,
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		CreatorID: project.CreatorID,
		CreatedAt: project.CreatedAt,
	}

	if len(project.Members) > 0 {
		dto.Members = make([]ProjectMemberDTO, len(project.Members))
		for i, m := range project.Members {
			dto.Members[i] = ToProjectMemberDTO(m)
		}
	}

	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		AssignedTo:   task.AssigneeID,
		CreatorID:    task.CreatorID,
		ProjectID:    task.ProjectID,
		GithubLink:   task.GithubLink,
		YoutubeLink:  task.YoutubeLink,
		DatabaseLink: task.DatabaseLink,
		Deadline:     task.Deadline,
		Reminder:     task.Reminder,
		Notified:     task.Notified,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		User:      ToUserDTO(comment.User),
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
	}
}

// ToActionLogDTO converts an ActionLog model to ActionLogDTO
func ToActionLogDTO(entry models.ActionLog) ActionLogDTO {
	return ActionLogDTO{
		ID:          entry.ID,
		ActionType:  entry.ActionType,
		TaskID:      entry.TaskID,
		ProjectID:   entry.ProjectID,
		User:        ToUserDTO(entry.User),
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt,
	}
}
