package services

import (
	"fmt"
	"testing"

	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// HistoryServiceTestSuite defines the test suite for HistoryService
type HistoryServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	taskService *TaskService
	service     *HistoryService

	admin   models.User
	staff   models.User
	hod     models.User
	faculty models.User
}

// SetupTest runs before each test
func (suite *HistoryServiceTestSuite) SetupTest() {
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

	suite.taskService = NewTaskService(taskRepo, userRepo, nil, nil)
	suite.service = NewHistoryService(historyRepo, taskRepo)

	suite.admin = suite.createTestUser("admin@example.com", models.RoleAdmin, "")
	suite.staff = suite.createTestUser("staff@example.com", models.RoleStaff, "")
	suite.hod = suite.createTestUser("hod@example.com", models.RoleHOD, "CSE")
	suite.faculty = suite.createTestUser("faculty@example.com", models.RoleFaculty, "CSE")
}

// TearDownTest runs after each test
func (suite *HistoryServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *HistoryServiceTestSuite) createTestUser(email string, role models.Role, dept string) models.User {
	user := models.User{
		Email:        email,
		Name:         email,
		Role:         role,
		Department:   dept,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(&user).Error)
	return user
}

// createCommentedTask creates a task assigned to the given emails and files
// one follow-up comment on it.
func (suite *HistoryServiceTestSuite) createCommentedTask(comment string, assignees ...string) *models.Task {
	task, err := suite.taskService.CreateTask(suite.staff, CreateTaskInput{
		Title:     "Committee review",
		Assignees: assignees,
	})
	suite.Require().NoError(err)

	_, err = suite.taskService.UpdateTask(task.ID, suite.staff, UpdateTaskInput{
		FollowComment: comment,
	})
	suite.Require().NoError(err)

	return task
}

func (suite *HistoryServiceTestSuite) TestRecent_AdminSeesEntriesAndComments() {
	suite.createCommentedTask("first note", "faculty@example.com")

	feed, err := suite.service.Recent(suite.admin)
	suite.Require().NoError(err)

	suite.Len(feed.Entries, 1)
	suite.Len(feed.Comments, 1)
	suite.Equal("first note", feed.Comments[0].CommentText())
	suite.Equal("Committee review", feed.Comments[0].Task.Title)
}

func (suite *HistoryServiceTestSuite) TestRecent_HODGetsEntriesButNoComments() {
	suite.createCommentedTask("department note", "faculty@example.com")

	feed, err := suite.service.Recent(suite.hod)
	suite.Require().NoError(err)

	// The activity itself is visible; the comment feed stays empty.
	suite.Len(feed.Entries, 1)
	suite.Empty(feed.Comments)
}

func (suite *HistoryServiceTestSuite) TestRecent_FacultyScopedToAssignedTasks() {
	suite.createCommentedTask("mine", "faculty@example.com")
	suite.createCommentedTask("not mine", "staff@example.com")

	feed, err := suite.service.Recent(suite.faculty)
	suite.Require().NoError(err)

	suite.Len(feed.Entries, 1)
	suite.Require().Len(feed.Comments, 1)
	suite.Equal("mine", feed.Comments[0].CommentText())
}

func (suite *HistoryServiceTestSuite) TestTaskComments_HODForbidden() {
	task := suite.createCommentedTask("department note", "faculty@example.com")

	// The task is visible to the HOD, its comments are not.
	_, err := suite.service.TaskComments(task.ID, suite.hod)
	suite.ErrorIs(err, ErrCommentsForbidden)
}

func (suite *HistoryServiceTestSuite) TestTaskComments_FacultyOnAssignedTask() {
	task := suite.createCommentedTask("visible to assignee", "faculty@example.com")

	entries, err := suite.service.TaskComments(task.ID, suite.faculty)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("visible to assignee", entries[0].CommentText())
}

func (suite *HistoryServiceTestSuite) TestTaskComments_UnassignedFacultyDenied() {
	task := suite.createCommentedTask("hidden", "staff@example.com")

	_, err := suite.service.TaskComments(task.ID, suite.faculty)
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *HistoryServiceTestSuite) TestTaskComments_NotFound() {
	_, err := suite.service.TaskComments(99999, suite.admin)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *HistoryServiceTestSuite) TestTaskComments_ExcludesPlainFieldEdits() {
	task := suite.createCommentedTask("only this one", "faculty@example.com")

	title := "Renamed review"
	_, err := suite.taskService.UpdateTask(task.ID, suite.staff, UpdateTaskInput{
		Title: &title,
	})
	suite.Require().NoError(err)

	entries, err := suite.service.TaskComments(task.ID, suite.admin)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("only this one", entries[0].CommentText())
}

func (suite *HistoryServiceTestSuite) TestAllComments_Paginated() {
	for i := 0; i < 5; i++ {
		suite.createCommentedTask(fmt.Sprintf("note %d", i), "faculty@example.com")
	}

	page, total, err := suite.service.AllComments(suite.admin, 0, 2)
	suite.Require().NoError(err)
	suite.EqualValues(5, total)
	suite.Len(page, 2)

	rest, _, err := suite.service.AllComments(suite.admin, 4, 2)
	suite.Require().NoError(err)
	suite.Len(rest, 1)
}

func (suite *HistoryServiceTestSuite) TestAllComments_HODAlwaysEmpty() {
	suite.createCommentedTask("department note", "faculty@example.com")

	entries, total, err := suite.service.AllComments(suite.hod, 0, 20)
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(entries)
}

func TestHistoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
