package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/projectzen/board-api/internal/dto"
)

type CommentHandlerTestSuite struct {
	baseSuite
}

func TestCommentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CommentHandlerTestSuite))
}

func (s *CommentHandlerTestSuite) commentsPath(taskID uint64) string {
	return fmt.Sprintf("/api/task/%d/comments", taskID)
}

func (s *CommentHandlerTestSuite) TestPostAndListComments() {
	alice := s.register("Alice", "alice@example.com")
	project := s.createProject(alice.Token, "Launch")
	task := s.createTask(alice.Token, gin.H{"title": "Design", "project": project.ID})

	w := s.request(http.MethodPost, s.commentsPath(task.ID), alice.Token, gin.H{"message": "first"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var posted dto.CommentDTO
	s.decode(w, &posted)
	s.Equal("first", posted.Message)
	s.Equal(alice.ID, posted.User.ID)
	s.Equal("Alice", posted.User.Name)

	w = s.request(http.MethodPost, s.commentsPath(task.ID), alice.Token, gin.H{"message": "second"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodGet, s.commentsPath(task.ID), alice.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var comments []dto.CommentDTO
	s.decode(w, &comments)
	s.Require().Len(comments, 2)

	// Oldest first.
	s.Equal("first", comments[0].Message)
	s.Equal("second", comments[1].Message)

	s.Equal(2, s.publisher.commentEvents)
}

func (s *CommentHandlerTestSuite) TestEmptyMessage() {
	alice := s.register("Alice", "alice@example.com")
	project := s.createProject(alice.Token, "Launch")
	task := s.createTask(alice.Token, gin.H{"title": "Design", "project": project.ID})

	w := s.request(http.MethodPost, s.commentsPath(task.ID), alice.Token, gin.H{"message": "   "})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *CommentHandlerTestSuite) TestOnlyParticipantsMayComment() {
	alice := s.register("Alice", "alice@example.com")
	bob := s.register("Bob", "bob@example.com")
	carol := s.register("Carol", "carol@example.com")

	project := s.createProject(alice.Token, "Launch")

	w := s.request(http.MethodPost, fmt.Sprintf("/api/projects/%d/add-member", project.ID), alice.Token, gin.H{"userId": bob.ID})
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.request(http.MethodPost, fmt.Sprintf("/api/projects/%d/add-member", project.ID), alice.Token, gin.H{"userId": carol.ID})
	s.Require().Equal(http.StatusOK, w.Code)

	task := s.createTask(alice.Token, gin.H{"title": "Design", "project": project.ID, "assigned_to": bob.ID})

	// The assignee may comment.
	w = s.request(http.MethodPost, s.commentsPath(task.ID), bob.Token, gin.H{"message": "on it"})
	s.Equal(http.StatusCreated, w.Code)

	// Plain project membership is not enough.
	w = s.request(http.MethodPost, s.commentsPath(task.ID), carol.Token, gin.H{"message": "me too"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodGet, s.commentsPath(task.ID), carol.Token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *CommentHandlerTestSuite) TestUnknownTask() {
	alice := s.register("Alice", "alice@example.com")

	w := s.request(http.MethodGet, s.commentsPath(9999), alice.Token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}
