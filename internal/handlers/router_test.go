package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kite-oss/task-schedule-api/internal/middleware"
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/repository"
	"github.com/kite-oss/task-schedule-api/internal/services"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "secret123"

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// apiTestSuite boots the full HTTP surface against an in-memory database.
// Embedded by the per-area suites.
type apiTestSuite struct {
	suite.Suite
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

// SetupTest runs before each test
func (suite *apiTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.TaskHistory{},
		&models.TaskAttachment{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	historyRepo := repository.NewHistoryRepository(suite.db)

	suite.authService = services.NewAuthService(userRepo, "test-secret", time.Hour)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, nil, nil)
	historyService := services.NewHistoryService(historyRepo, taskRepo)
	exportService := services.NewExportService(taskRepo)

	authHandler := NewAuthHandler(suite.authService)
	userHandler := NewUserHandler(userService)
	taskHandler := NewTaskHandler(taskService)
	historyHandler := NewHistoryHandler(historyService)
	exportHandler := NewExportHandler(exportService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	api := suite.router.Group("/api")
	requireAuth := middleware.RequireAuth(suite.authService)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/info", requireAuth, authHandler.Info)

	users := auth.Group("/users")
	users.Use(requireAuth)
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.POST("/:id/reset-password", userHandler.ResetPassword)

	api.GET("/dashboard", requireAuth, taskHandler.Dashboard)

	tasks := api.Group("/tasks")
	tasks.Use(requireAuth)
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/export/csv", exportHandler.ExportCSV)
	tasks.GET("/report/pdf", exportHandler.ExportPDF)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PATCH("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.GET("/:id/comments", historyHandler.TaskComments)

	api.GET("/history", requireAuth, historyHandler.Recent)
	api.GET("/comments", requireAuth, historyHandler.AllComments)
}

// TearDownTest runs after each test
func (suite *apiTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *apiTestSuite) createTestUser(email string, role models.Role, dept string) models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := models.User{
		Email:        email,
		Name:         email,
		Role:         role,
		Department:   dept,
		PasswordHash: string(hashed),
	}
	suite.Require().NoError(suite.db.Create(&user).Error)
	return user
}

func (suite *apiTestSuite) tokenFor(email string) string {
	token, _, err := suite.authService.Login(email, testPassword)
	suite.Require().NoError(err)
	return token
}

// request performs an HTTP request against the test router. A non-empty
// token is sent as a bearer credential.
func (suite *apiTestSuite) request(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *apiTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (suite *apiTestSuite) requireStatus(w *httptest.ResponseRecorder, want int) map[string]any {
	suite.Require().Equal(want, w.Code, w.Body.String())
	if w.Code == http.StatusNoContent {
		return nil
	}
	return suite.decode(w)
}
