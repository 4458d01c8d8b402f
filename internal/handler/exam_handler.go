package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/export"
	"github.com/sgp/sgp-backend/internal/middleware"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/response"
	"github.com/sgp/sgp-backend/internal/service"
	"github.com/sgp/sgp-backend/internal/validator"
)

// examService is the part of service.ExamService used by ExamHandler.
type examService interface {
	List(ctx context.Context, page, perPage int) ([]model.Exam, *response.Pagination, error)
	GetByID(ctx context.Context, id int64) (*model.Exam, error)
	Create(ctx context.Context, actorID int, exam *model.Exam) (*model.Exam, error)
	Update(ctx context.Context, actorID int, id int64, req model.UpdateExamRequest) (*model.Exam, error)
}

// ExamHandler handles exam management endpoints.
type ExamHandler struct {
	examService examService
	log         zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService examService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		log:         log.With().Str("component", "exam_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/admin/exams
// Lists exams with pagination, newest first.
func (h *ExamHandler) ListExams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	exams, pagination, err := h.examService.List(c.Request.Context(), page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("List exams failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"exams": exams}, pagination)
}

// GetExam godoc
// GET /api/v1/admin/exams/:id
// Returns an exam with its selected questions.
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, ok := parseExamID(c)
	if !ok {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, exam)
}

// CreateExam godoc
// POST /api/v1/admin/exams
// Creates an exam with its question selection.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), claims.UserID, &model.Exam{
		Title:              req.Title,
		ApprovalPercentage: req.ApprovalPercentage,
		Questions:          req.Questions,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, exam)
}

// UpdateExam godoc
// PUT /api/v1/admin/exams/:id
// Partially updates an exam. Omitted fields keep their value; a question
// list, even an empty one, replaces the selection.
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, ok := parseExamID(c)
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), claims.UserID, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, exam)
}

// ExportExam godoc
// GET /api/v1/admin/exams/:id/export
// Downloads the exam and its questions as an xlsx workbook.
func (h *ExamHandler) ExportExam(c *gin.Context) {
	id, ok := parseExamID(c)
	if !ok {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	f, err := export.ExamWorkbook(exam)
	if err != nil {
		h.log.Error().Err(err).Int64("exam_id", id).Msg("Build workbook failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(exam)+`"`)
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Int64("exam_id", id).Msg("Write workbook failed")
	}
}

func (h *ExamHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrUnknownQuestion):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnknownQuestion)
	default:
		h.log.Error().Err(err).Msg("Exam request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func parseExamID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
