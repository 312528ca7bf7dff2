package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/projectzen/board-api/internal/config"
	"github.com/projectzen/board-api/internal/database"
	"github.com/projectzen/board-api/internal/handlers"
	"github.com/projectzen/board-api/internal/mailer"
	"github.com/projectzen/board-api/internal/middleware"
	"github.com/projectzen/board-api/internal/relay"
	"github.com/projectzen/board-api/internal/reminder"
	"github.com/projectzen/board-api/internal/repository"
	"github.com/projectzen/board-api/internal/services"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.GinMode == "debug" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	gin.SetMode(cfg.Server.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rel, err := relay.New(cfg.Relay)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start relay")
	}
	defer rel.Close()

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	actionRepo := repository.NewActionLogRepository(db)

	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, actionRepo, rel)
	commentService := services.NewCommentService(commentRepo, taskRepo, rel)
	actionService := services.NewActionService(actionRepo, projectRepo)

	scanner := reminder.NewScanner(taskRepo, mailer.NewSMTPMailer(cfg.Mail), cfg.Reminder.Interval)
	scanner.Start()
	defer scanner.Stop()

	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	actionHandler := handlers.NewActionHandler(actionService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Board API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

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

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
