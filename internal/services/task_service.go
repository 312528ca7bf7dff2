package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/relay"
	"github.com/projectzen/board-api/internal/repository"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleIsColumnName  = errors.New("task title cannot match column names")
	ErrTitleTaken         = errors.New("task title must be unique in project")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidPriority    = errors.New("invalid task priority")
	ErrAssigneeNotMember  = errors.New("assignee must be a project member")
	ErrTaskAccessDenied   = errors.New("you do not have access to this task")
)

// TaskService handles task business logic, including smart assignment and
// the audit/relay side effects of every mutation.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	actionRepo  repository.ActionLogRepository
	publisher   relay.Publisher
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	actionRepo repository.ActionLogRepository,
	publisher relay.Publisher,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		actionRepo:  actionRepo,
		publisher:   publisher,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	AssigneeID   *uint64
	ProjectID    uint64
	GithubLink   string
	YoutubeLink  string
	DatabaseLink string
	Deadline     *time.Time
	Reminder     *time.Time
}

// UpdateTaskInput represents a partial task update. Pointer fields are
// applied only when set; Clear* flags null out optional fields.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uint64
	ClearAssignee bool
	GithubLink    *string
	YoutubeLink   *string
	DatabaseLink  *string
	Deadline      *time.Time
	ClearDeadline bool
	Reminder      *time.Time
	ClearReminder bool
}

// CreateTask validates and creates a task. When no assignee is given the
// least-loaded project member is chosen. An audit entry and a relay event
// follow the write.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if isColumnName(title) {
		return nil, ErrTitleIsColumnName
	}

	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !project.IsMember(actor.ID) {
		return nil, ErrNotProjectMember
	}

	if _, err := s.taskRepo.FindByProjectAndTitle(input.ProjectID, title); err == nil {
		return nil, ErrTitleTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check title: %w", err)
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !models.ValidStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}

	assigneeID := input.AssigneeID
	if assigneeID != nil {
		if !project.IsMember(*assigneeID) {
			return nil, ErrAssigneeNotMember
		}
	} else {
		assigneeID, err = s.smartAssign(project)
		if err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:        title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		AssigneeID:   assigneeID,
		CreatorID:    actor.ID,
		ProjectID:    input.ProjectID,
		GithubLink:   input.GithubLink,
		YoutubeLink:  input.YoutubeLink,
		DatabaseLink: input.DatabaseLink,
		Deadline:     input.Deadline,
		Reminder:     input.Reminder,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	resolved, err := s.taskRepo.FindByID(task.ID, "Assignee")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	s.logAction(models.ActionCreate, resolved, actor,
		fmt.Sprintf("%s created task %q", actor.Name, resolved.Title))
	s.publisher.TaskCreated(resolved)

	return resolved, nil
}

// ListTasks returns all tasks of a project, visible to members only.
func (s *TaskService) ListTasks(actorID, projectID uint64) ([]models.Task, error) {
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

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask loads a task and verifies the actor may act on it: project
// members, the creator, and the assignee qualify.
func (s *TaskService) GetTask(actorID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureTaskAccess(task, actorID); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update. Status moves freely between the
// three columns; a changed title must still obey the title rules.
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(actor.ID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if isColumnName(title) {
			return nil, ErrTitleIsColumnName
		}
		if title != task.Title {
			if _, err := s.taskRepo.FindByProjectAndTitle(task.ProjectID, title); err == nil {
				return nil, ErrTitleTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check title: %w", err)
			}
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
		task.Assignee = nil
	} else if input.AssigneeID != nil {
		project, err := s.projectRepo.FindByID(task.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
		if !project.IsMember(*input.AssigneeID) {
			return nil, ErrAssigneeNotMember
		}
		task.AssigneeID = input.AssigneeID
	}
	if input.GithubLink != nil {
		task.GithubLink = *input.GithubLink
	}
	if input.YoutubeLink != nil {
		task.YoutubeLink = *input.YoutubeLink
	}
	if input.DatabaseLink != nil {
		task.DatabaseLink = *input.DatabaseLink
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.ClearReminder {
		task.Reminder = nil
	} else if input.Reminder != nil {
		task.Reminder = input.Reminder
		task.Notified = false
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	resolved, err := s.taskRepo.FindByID(task.ID, "Assignee")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	s.logAction(models.ActionUpdate, resolved, actor,
		fmt.Sprintf("%s updated task %q", actor.Name, resolved.Title))
	s.publisher.TaskUpdated(resolved)

	return resolved, nil
}

// DeleteTask removes a task and its comments.
func (s *TaskService) DeleteTask(actor *models.User, taskID uint64) error {
	task, err := s.GetTask(actor.ID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logAction(models.ActionDelete, task, actor,
		fmt.Sprintf("%s deleted task %q", actor.Name, task.Title))
	s.publisher.TaskDeleted(task.ProjectID, task.ID)

	return nil
}

// smartAssign picks the member with the fewest assigned tasks. Members are
// walked in join order and the strict comparison keeps the earliest member
// on ties. The read-then-decide sequence is not isolated; concurrent
// creations may pick the same member.
func (s *TaskService) smartAssign(project *models.Project) (*uint64, error) {
	if len(project.Members) == 0 {
		return nil, nil
	}

	tasks, err := s.taskRepo.ListByProject(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project tasks: %w", err)
	}

	counts := make(map[uint64]int, len(project.Members))
	for _, t := range tasks {
		if t.AssigneeID != nil {
			counts[*t.AssigneeID]++
		}
	}

	var chosen *uint64
	minCount := 0
	for i := range project.Members {
		memberID := project.Members[i].UserID
		if chosen == nil || counts[memberID] < minCount {
			id := memberID
			chosen = &id
			minCount = counts[memberID]
		}
	}

	return chosen, nil
}

// ensureTaskAccess permits project members plus the task's creator and
// assignee. Bare authentication is not enough.
func (s *TaskService) ensureTaskAccess(task *models.Task, actorID uint64) error {
	if task.AuthorizedFor(actorID) {
		return nil
	}

	project, err := s.projectRepo.FindByID(task.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	if !project.IsMember(actorID) {
		return ErrTaskAccessDenied
	}
	return nil
}

// logAction appends an audit entry and relays it. The task write has
// already succeeded at this point; a failed append is logged and
// tolerated rather than compensated.
func (s *TaskService) logAction(actionType models.ActionType, task *models.Task, actor *models.User, description string) {
	entry := &models.ActionLog{
		ActionType:  actionType,
		TaskID:      task.ID,
		UserID:      actor.ID,
		ProjectID:   task.ProjectID,
		Description: description,
	}

	if err := s.actionRepo.Create(entry); err != nil {
		log.Error().Err(err).Uint64("task_id", task.ID).Msg("failed to append action log entry")
		return
	}

	entry.User = *actor
	s.publisher.ActionLogged(entry)
}

func isColumnName(title string) bool {
	switch models.TaskStatus(title) {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
		return true
	}
	return false
}
