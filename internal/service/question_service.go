package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/repository"
)

// ErrInvalidSort is returned when the drop-down is sorted by an unknown field.
var ErrInvalidSort = errors.New("invalid sort field")

// QuestionService handles question business logic.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// Create registers a question.
func (s *QuestionService) Create(ctx context.Context, question *model.Question) error {
	return s.questionRepo.Create(ctx, question)
}

// ListForDropdown returns one page of questions for the exam question picker.
func (s *QuestionService) ListForDropdown(ctx context.Context, filter model.QuestionFilter, req model.PageRequest) (*model.Page[model.SelectItem], error) {
	req = req.Normalize()
	if req.Sort != nil && !repository.IsQuestionSortField(req.Sort.Field) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSort, req.Sort.Field)
	}

	items, total, err := s.questionRepo.ListForDropdown(ctx, filter, req.Size, req.Offset(), req.Sort)
	if err != nil {
		return nil, err
	}

	return &model.Page[model.SelectItem]{Content: items, TotalElements: total}, nil
}
