package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID    *int64   `json:"id"`
	Name  string   `json:"name" validate:"required_without=ID"`
	Score *float64 `json:"score" validate:"omitempty,gte=0,lte=100"`
}

func TestStructValid(t *testing.T) {
	score := 50.0
	assert.Nil(t, Struct(sample{Name: "ok", Score: &score}))
}

func TestStructUsesJSONNames(t *testing.T) {
	fields := Struct(sample{})
	assert.Contains(t, fields, "name")
	assert.NotEmpty(t, fields["name"])
}

func TestStructRequiredWithoutRelaxedByID(t *testing.T) {
	id := int64(3)
	assert.Nil(t, Struct(sample{ID: &id}))
}

func TestStructRange(t *testing.T) {
	score := 101.0
	fields := Struct(sample{Name: "x", Score: &score})
	assert.Contains(t, fields, "score")
}

func TestTranslateErrorsNonValidation(t *testing.T) {
	fields := TranslateErrors(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"detail": "unexpected EOF"}, fields)
}
