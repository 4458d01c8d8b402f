package client

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/sgp/sgp-backend/internal/examform"
	"github.com/sgp/sgp-backend/internal/model"
)

const examsPath = "/api/v1/admin/exams"

// ExamClient implements the form's ExamStore over HTTP.
type ExamClient struct {
	c *Client
}

// Create posts a new exam and copies the stored record, including its ID,
// back into exam.
func (e *ExamClient) Create(ctx context.Context, exam *model.Exam) error {
	req := model.CreateExamRequest{
		Title:              exam.Title,
		ApprovalPercentage: exam.ApprovalPercentage,
		Questions:          nonNil(exam.Questions),
	}
	var out model.Exam
	if err := e.c.post(ctx, examsPath, req, &out); err != nil {
		return err
	}
	*exam = out
	return nil
}

// Update sends a partial update. An empty title is left out so the stored
// one is kept; the question list always replaces the stored association.
func (e *ExamClient) Update(ctx context.Context, exam *model.Exam) error {
	if exam.IsNew() {
		return fmt.Errorf("update exam: missing id")
	}
	req := model.UpdateExamRequest{
		ApprovalPercentage: exam.ApprovalPercentage,
		Questions:          nonNil(exam.Questions),
	}
	if exam.Title != "" {
		title := exam.Title
		req.Title = &title
	}
	return e.c.put(ctx, examPath(*exam.ID), req, nil)
}

// Get fetches one exam with its questions.
func (e *ExamClient) Get(ctx context.Context, id int64) (*model.Exam, error) {
	var out model.Exam
	if _, err := e.c.getJSON(ctx, examPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export writes the exam workbook (xlsx) to w.
func (e *ExamClient) Export(ctx context.Context, id int64, w io.Writer) error {
	return e.c.download(ctx, examPath(id)+"/export", w)
}

func examPath(id int64) string {
	return examsPath + "/" + strconv.FormatInt(id, 10)
}

func nonNil(items []model.SelectItem) []model.SelectItem {
	if items == nil {
		return []model.SelectItem{}
	}
	return items
}

var _ examform.ExamStore = (*ExamClient)(nil)
