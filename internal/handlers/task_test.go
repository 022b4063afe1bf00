package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/stretchr/testify/suite"
)

// TaskHandlerTestSuite defines the test suite for task, history and export
// routes
type TaskHandlerTestSuite struct {
	apiTestSuite
}

func (suite *TaskHandlerTestSuite) seedUsers() (admin, staff, hod, faculty models.User) {
	admin = suite.createTestUser("admin@example.com", models.RoleAdmin, "")
	staff = suite.createTestUser("staff@example.com", models.RoleStaff, "")
	hod = suite.createTestUser("hod@example.com", models.RoleHOD, "CSE")
	faculty = suite.createTestUser("faculty@example.com", models.RoleFaculty, "CSE")
	return
}

// createTaskViaAPI creates a task as staff and returns its ID.
func (suite *TaskHandlerTestSuite) createTaskViaAPI(assignees ...string) string {
	token := suite.tokenFor("staff@example.com")
	w := suite.request(http.MethodPost, "/api/tasks", token, map[string]any{
		"title":     "Semester planning",
		"priority":  "high",
		"due_date":  "2026-12-01",
		"assignee": assignees,
	})
	body := suite.requireStatus(w, http.StatusCreated)
	return itoa(uint64(body["id"].(float64)))
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	suite.seedUsers()
	token := suite.tokenFor("staff@example.com")

	w := suite.request(http.MethodPost, "/api/tasks", token, map[string]any{
		"title":     "Semester planning",
		"priority":  "high",
		"assignee": []string{"faculty@example.com"},
	})
	body := suite.requireStatus(w, http.StatusCreated)

	suite.Equal("Semester planning", body["title"])
	suite.Equal("high", body["priority"])
	suite.Equal("pending", body["status"])

	assignments := body["assignments"].([]any)
	suite.Require().Len(assignments, 1)
	first := assignments[0].(map[string]any)
	suite.Equal("CSE", first["department"])
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownAssignee() {
	suite.seedUsers()
	token := suite.tokenFor("staff@example.com")

	w := suite.request(http.MethodPost, "/api/tasks", token, map[string]any{
		"title":     "Semester planning",
		"assignee": []string{"ghost@example.com"},
	})
	body := suite.requireStatus(w, http.StatusBadRequest)
	suite.Contains(body["message"], "ghost@example.com")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_FacultyForbidden() {
	suite.seedUsers()
	token := suite.tokenFor("faculty@example.com")

	w := suite.request(http.MethodPost, "/api/tasks", token, map[string]any{
		"title": "Not allowed",
	})
	suite.requireStatus(w, http.StatusForbidden)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Paginated() {
	suite.seedUsers()
	for i := 0; i < 3; i++ {
		suite.createTaskViaAPI("faculty@example.com")
	}

	token := suite.tokenFor("admin@example.com")
	w := suite.request(http.MethodGet, "/api/tasks?page=1&page_size=2", token, nil)
	body := suite.requireStatus(w, http.StatusOK)

	suite.Len(body["tasks"].([]any), 2)
	pagination := body["pagination"].(map[string]any)
	suite.EqualValues(3, pagination["total"])
	suite.EqualValues(2, pagination["pages"])
}

func (suite *TaskHandlerTestSuite) TestGetTask_StripsCommentsForHOD() {
	suite.seedUsers()
	id := suite.createTaskViaAPI("faculty@example.com")

	staffToken := suite.tokenFor("staff@example.com")
	w := suite.request(http.MethodPatch, "/api/tasks/"+id, staffToken, map[string]any{
		"follow_comment": "confidential note",
	})
	suite.requireStatus(w, http.StatusOK)

	// Admin sees the comment on the history entries.
	adminBody := suite.requireStatus(
		suite.request(http.MethodGet, "/api/tasks/"+id, suite.tokenFor("admin@example.com"), nil),
		http.StatusOK)
	adminHistory := adminBody["history"].([]any)
	suite.Require().Len(adminHistory, 1)
	suite.Equal("confidential note", adminHistory[0].(map[string]any)["comment"])

	// HOD sees the entry but never the comment text.
	hodBody := suite.requireStatus(
		suite.request(http.MethodGet, "/api/tasks/"+id, suite.tokenFor("hod@example.com"), nil),
		http.StatusOK)
	hodHistory := hodBody["history"].([]any)
	suite.Require().Len(hodHistory, 1)
	suite.NotContains(hodHistory[0].(map[string]any), "comment")
	suite.NotContains(hodBody, "confidential note")
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_DiffInResponse() {
	suite.seedUsers()
	id := suite.createTaskViaAPI("faculty@example.com")
	token := suite.tokenFor("staff@example.com")

	w := suite.request(http.MethodPatch, "/api/tasks/"+id, token, map[string]any{
		"title":    "Semester planning v2",
		"priority": "high",
	})
	body := suite.requireStatus(w, http.StatusOK)

	history := body["history"].([]any)
	suite.Require().Len(history, 1)
	entry := history[0].(map[string]any)
	changes := entry["changes"].(map[string]any)

	// Priority was resubmitted unchanged and must not appear in the diff.
	suite.Contains(changes, "title")
	suite.NotContains(changes, "priority")
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_MarkCompletedDenied() {
	suite.seedUsers()
	id := suite.createTaskViaAPI("faculty@example.com")

	w := suite.request(http.MethodPatch, "/api/tasks/"+id, suite.tokenFor("faculty@example.com"), map[string]any{
		"status": "completed",
	})
	body := suite.requireStatus(w, http.StatusForbidden)
	suite.Contains(body["message"], "only admin and staff")
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_HODCrossDepartment() {
	suite.seedUsers()
	id := suite.createTaskViaAPI("staff@example.com")

	w := suite.request(http.MethodDelete, "/api/tasks/"+id, suite.tokenFor("hod@example.com"), nil)
	suite.requireStatus(w, http.StatusForbidden)
}

func (suite *TaskHandlerTestSuite) TestTaskComments_HODForbidden() {
	suite.seedUsers()
	id := suite.createTaskViaAPI("faculty@example.com")

	staffToken := suite.tokenFor("staff@example.com")
	w := suite.request(http.MethodPatch, "/api/tasks/"+id, staffToken, map[string]any{
		"follow_comment": "department secret",
	})
	suite.requireStatus(w, http.StatusOK)

	w = suite.request(http.MethodGet, "/api/tasks/"+id+"/comments", suite.tokenFor("hod@example.com"), nil)
	suite.requireStatus(w, http.StatusForbidden)

	body := suite.requireStatus(
		suite.request(http.MethodGet, "/api/tasks/"+id+"/comments", suite.tokenFor("faculty@example.com"), nil),
		http.StatusOK)
	comments := body["comments"].([]any)
	suite.Require().Len(comments, 1)
	suite.Equal("department secret", comments[0].(map[string]any)["comment"])
}

func (suite *TaskHandlerTestSuite) TestHistoryFeed_ByRole() {
	suite.seedUsers()
	id := suite.createTaskViaAPI("faculty@example.com")

	staffToken := suite.tokenFor("staff@example.com")
	w := suite.request(http.MethodPatch, "/api/tasks/"+id, staffToken, map[string]any{
		"follow_comment": "weekly status",
	})
	suite.requireStatus(w, http.StatusOK)

	adminFeed := suite.requireStatus(
		suite.request(http.MethodGet, "/api/history", suite.tokenFor("admin@example.com"), nil),
		http.StatusOK)
	suite.Len(adminFeed["comments"].([]any), 1)

	hodFeed := suite.requireStatus(
		suite.request(http.MethodGet, "/api/history", suite.tokenFor("hod@example.com"), nil),
		http.StatusOK)
	suite.NotEmpty(hodFeed["activities"].([]any))
	suite.Empty(hodFeed["comments"].([]any))
}

func (suite *TaskHandlerTestSuite) TestDashboard() {
	suite.seedUsers()
	suite.createTaskViaAPI("faculty@example.com")

	body := suite.requireStatus(
		suite.request(http.MethodGet, "/api/dashboard", suite.tokenFor("admin@example.com"), nil),
		http.StatusOK)
	suite.EqualValues(1, body["total_task"])
	suite.EqualValues(1, body["ongoing_task"])
	suite.EqualValues(0, body["completed_task"])
}

func (suite *TaskHandlerTestSuite) TestExportCSV() {
	suite.seedUsers()
	suite.createTaskViaAPI("faculty@example.com")

	w := suite.request(http.MethodGet, "/api/tasks/export/csv", suite.tokenFor("admin@example.com"), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	suite.Require().Len(lines, 2)
	suite.Contains(lines[0], "Title")
	suite.Contains(lines[1], "Semester planning")
	suite.Contains(lines[1], "faculty@example.com")
}

func (suite *TaskHandlerTestSuite) TestExportPDF() {
	suite.seedUsers()
	suite.createTaskViaAPI("faculty@example.com")

	w := suite.request(http.MethodGet, "/api/tasks/report/pdf", suite.tokenFor("admin@example.com"), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.True(strings.HasPrefix(w.Body.String(), "%PDF"))
}

func (suite *TaskHandlerTestSuite) TestTaskRoutes_RequireAuth() {
	w := suite.request(http.MethodGet, "/api/tasks", "", nil)
	suite.requireStatus(w, http.StatusUnauthorized)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
