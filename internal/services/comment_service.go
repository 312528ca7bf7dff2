package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/relay"
	"github.com/projectzen/board-api/internal/repository"
)

var (
	ErrEmptyComment        = errors.New("message cannot be empty")
	ErrNotTaskParticipant  = errors.New("not authorized for this task")
)

// CommentService handles task comments. Only a task's creator or assignee
// may read or post them.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	publisher   relay.Publisher
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, publisher relay.Publisher) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		publisher:   publisher,
	}
}

// ListComments returns a task's comments oldest first.
func (s *CommentService) ListComments(actorID, taskID uint64) ([]models.Comment, error) {
	if err := s.ensureParticipant(actorID, taskID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// PostComment stores a comment and relays it into the task room once the
// write has succeeded.
func (s *CommentService) PostComment(actor *models.User, taskID uint64, message string) (*models.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyComment
	}

	if err := s.ensureParticipant(actor.ID, taskID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TaskID:  taskID,
		UserID:  actor.ID,
		Message: message,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	comment.User = *actor
	s.publisher.NewComment(comment)

	return comment, nil
}

func (s *CommentService) ensureParticipant(actorID, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !task.AuthorizedFor(actorID) {
		return ErrNotTaskParticipant
	}
	return nil
}
