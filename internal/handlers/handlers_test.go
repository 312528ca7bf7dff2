package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projectzen/board-api/internal/dto"
	"github.com/projectzen/board-api/internal/middleware"
	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/repository"
	"github.com/projectzen/board-api/internal/services"
)

// fakePublisher records relay events instead of publishing them.
type fakePublisher struct {
	taskEvents    int
	commentEvents int
	actionEvents  int
}

func (f *fakePublisher) TaskCreated(*models.Task)        { f.taskEvents++ }
func (f *fakePublisher) TaskUpdated(*models.Task)        { f.taskEvents++ }
func (f *fakePublisher) TaskDeleted(_, _ uint64)         { f.taskEvents++ }
func (f *fakePublisher) NewComment(*models.Comment)      { f.commentEvents++ }
func (f *fakePublisher) ActionLogged(*models.ActionLog)  { f.actionEvents++ }

// baseSuite spins up the API against an in-memory database, with the same
// routing as the server binary.
type baseSuite struct {
	suite.Suite
	db        *gorm.DB
	router    *gin.Engine
	publisher *fakePublisher
}

func (s *baseSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Comment{},
		&models.ActionLog{},
	)
	s.Require().NoError(err)

	s.db = db
	s.publisher = &fakePublisher{}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	actionRepo := repository.NewActionLogRepository(db)

	authService := services.NewAuthService(userRepo, "test-secret")
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, actionRepo, s.publisher)
	commentService := services.NewCommentService(commentRepo, taskRepo, s.publisher)
	actionService := services.NewActionService(actionRepo, projectRepo)

	authHandler := NewAuthHandler(authService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)
	commentHandler := NewCommentHandler(commentService)
	actionHandler := NewActionHandler(actionService)

	r := gin.New()
	requireAuth := middleware.RequireAuth(authService)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/users", requireAuth, authHandler.ListUsers)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/my", projectHandler.ListMyProjects)
			projects.POST("/:projectId/add-member", projectHandler.AddMember)
			projects.DELETE("/:projectId/remove-member", projectHandler.RemoveMember)
			projects.GET("/:projectId/members", projectHandler.ListMembers)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("/createtask", taskHandler.CreateTask)
			tasks.GET("/:projectId", taskHandler.ListTasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		actions := api.Group("/actions")
		actions.Use(requireAuth)
		{
			actions.GET("/:projectId/recent", actionHandler.RecentActions)
		}

		comments := api.Group("/task/:taskId/comments")
		comments.Use(requireAuth)
		{
			comments.GET("", commentHandler.ListComments)
			comments.POST("", commentHandler.PostComment)
		}
	}

	s.router = r
}

// request performs an API call and returns the recorded response. A non-empty
// token is sent as a bearer credential.
func (s *baseSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *baseSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
}

// register creates an account through the API and returns its identity
// with a usable token.
func (s *baseSuite) register(name, email string) dto.AuthResponse {
	w := s.request(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponse
	s.decode(w, &resp)
	return resp
}

// createProject creates a project through the API for the given token.
func (s *baseSuite) createProject(token, name string) dto.ProjectDTO {
	w := s.request(http.MethodPost, "/api/projects", token, gin.H{"name": name})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.ProjectDTO
	s.decode(w, &resp)
	return resp
}

// createTask creates a task through the API for the given token.
func (s *baseSuite) createTask(token string, body gin.H) dto.TaskDTO {
	w := s.request(http.MethodPost, "/api/tasks/createtask", token, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TaskDTO
	s.decode(w, &resp)
	return resp
}
