package examform

import (
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/validator"
)

// Form holds the two editable fields of the exam dialog. ID mirrors the
// working record: once the exam exists both fields become optional, so an
// edit can submit a partial update.
type Form struct {
	ID                 *int64   `json:"id"`
	Title              string   `json:"title" validate:"required_without=ID"`
	ApprovalPercentage *float64 `json:"approval_percentage" validate:"required_without=ID"`
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid  bool
	Fields map[string]string
}

// Validate checks f without touching any controller state.
func Validate(f Form) ValidationResult {
	fields := validator.Struct(f)
	return ValidationResult{Valid: len(fields) == 0, Fields: fields}
}

// formFrom builds the field set from a working record.
func formFrom(exam *model.Exam) Form {
	c := exam.Clone()
	return Form{
		ID:                 c.ID,
		Title:              c.Title,
		ApprovalPercentage: c.ApprovalPercentage,
	}
}
