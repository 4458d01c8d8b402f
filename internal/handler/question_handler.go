package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sgp/sgp-backend/internal/middleware"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/response"
	"github.com/sgp/sgp-backend/internal/service"
	"github.com/sgp/sgp-backend/internal/validator"
)

// questionService is the part of service.QuestionService used by QuestionHandler.
type questionService interface {
	Create(ctx context.Context, question *model.Question) error
	ListForDropdown(ctx context.Context, filter model.QuestionFilter, req model.PageRequest) (*model.Page[model.SelectItem], error)
}

// QuestionHandler handles question endpoints.
type QuestionHandler struct {
	questionService questionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService questionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListDropdown godoc
// GET /api/v1/admin/questions/dropdown
// Returns one page of questions as label/value items for the exam question picker.
// Query: page (0-based), size, sort=field[,asc|desc], description, subject, difficulty.
func (h *QuestionHandler) ListDropdown(c *gin.Context) {
	fields := map[string]string{}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		fields["page"] = "page deve ser um número inteiro"
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(model.DefaultPageSize)))
	if err != nil {
		fields["size"] = "size deve ser um número inteiro"
	}

	filter := model.QuestionFilter{
		Description: strings.TrimSpace(c.Query("description")),
		Subject:     strings.TrimSpace(c.Query("subject")),
		Difficulty:  model.QuestionDifficulty(strings.ToUpper(strings.TrimSpace(c.Query("difficulty")))),
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		fields["difficulty"] = "difficulty deve ser um de [EASY MEDIUM HARD]"
	}

	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sort, err := model.ParseSort(c.Query("sort"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSort)
		return
	}

	req := model.PageRequest{Page: page, Size: size, Sort: sort}.Normalize()

	result, err := h.questionService.ListForDropdown(c.Request.Context(), filter, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSort) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidSort)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if result.Content == nil {
		result.Content = []model.SelectItem{}
	}

	response.SuccessWithPagination(c, http.StatusOK, result,
		response.NewPagination(req.Page, req.Size, result.TotalElements))
}

// CreateQuestion godoc
// POST /api/v1/admin/questions
// Registers a question so it can be picked into exams.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := &model.Question{
		Description: req.Description,
		Subject:     req.Subject,
		Difficulty:  model.QuestionDifficulty(req.Difficulty),
		AuthorID:    claims.UserID,
	}

	if err := h.questionService.Create(c.Request.Context(), question); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, question)
}
