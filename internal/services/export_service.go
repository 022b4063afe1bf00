package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/repository"
)

// ExportService renders read-only task listings for download. It consumes
// the same scoped listing the API serves; correctness of the data lives in
// the lifecycle engine, not here.
type ExportService struct {
	taskRepo repository.TaskRepository
}

// NewExportService creates a new ExportService
func NewExportService(taskRepo repository.TaskRepository) *ExportService {
	return &ExportService{taskRepo: taskRepo}
}

func (s *ExportService) listFor(actor models.User) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(taskScopeFor(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for export: %w", err)
	}
	return tasks, nil
}

// WriteCSV streams the actor's visible tasks as CSV.
func (s *ExportService) WriteCSV(actor models.User, w io.Writer) error {
	tasks, err := s.listFor(actor)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Title", "Priority", "Status", "Due Date", "Created By", "Assignees"}); err != nil {
		return err
	}

	for _, task := range tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format("2006-01-02")
		}

		assignees := make([]string, 0, len(task.Assignments))
		for _, a := range task.Assignments {
			assignees = append(assignees, a.User.Email)
		}

		record := []string{
			strconv.FormatUint(task.ID, 10),
			task.Title,
			string(task.Priority),
			string(task.Status),
			dueDate,
			creatorLabel(task),
			strings.Join(assignees, "; "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePDF renders the actor's visible tasks as a one-column PDF report.
func (s *ExportService) WritePDF(actor models.User, w io.Writer) error {
	tasks, err := s.listFor(actor)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Task Management Report", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, task := range tasks {
		line := fmt.Sprintf("%s - %s", task.Title, task.Priority)
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func creatorLabel(task models.Task) string {
	if task.CreatedBy != nil {
		return task.CreatedBy.Email
	}
	return task.CreatedByEmail
}
