package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kite-oss/task-schedule-api/internal/config"
	"github.com/kite-oss/task-schedule-api/internal/database"
	"github.com/kite-oss/task-schedule-api/internal/handlers"
	"github.com/kite-oss/task-schedule-api/internal/middleware"
	"github.com/kite-oss/task-schedule-api/internal/repository"
	"github.com/kite-oss/task-schedule-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Repositories
	taskRepo := repository.NewTaskRepository(database.GetDB())
	userRepo := repository.NewUserRepository(database.GetDB())
	historyRepo := repository.NewHistoryRepository(database.GetDB())

	// Mailer is optional; an unconfigured SMTP host disables notifications.
	// The nil check must happen on the concrete type before it enters the
	// interface.
	var mailer services.Mailer
	if m := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom); m != nil {
		mailer = m
	}

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, mailer, logger)
	historyService := services.NewHistoryService(historyRepo, taskRepo)
	exportService := services.NewExportService(taskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Schedule API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		requireAuth := middleware.RequireAuth(authService)

		// Auth and account routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/info", requireAuth, authHandler.Info)

			users := auth.Group("/users")
			users.Use(requireAuth)
			{
				users.GET("", userHandler.ListUsers)
				users.POST("", userHandler.CreateUser)
				users.PATCH("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
				users.POST("/:id/reset-password", userHandler.ResetPassword)
			}
		}

		// Dashboard
		api.GET("/dashboard", requireAuth, taskHandler.Dashboard)

		// Task routes
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/export/csv", exportHandler.ExportCSV)
			tasks.GET("/report/pdf", exportHandler.ExportPDF)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.GET("/:id/comments", historyHandler.TaskComments)
		}

		// History and comment feeds
		api.GET("/history", requireAuth, historyHandler.Recent)
		api.GET("/comments", requireAuth, historyHandler.AllComments)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
