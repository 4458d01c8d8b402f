package model

import "time"

// Question is an item that can be attached to an exam.
type Question struct {
	ID          int64              `json:"id"`
	Description string             `json:"description"`
	Subject     string             `json:"subject"`
	Difficulty  QuestionDifficulty `json:"difficulty"`
	AuthorID    int                `json:"author_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type QuestionDifficulty string

const (
	QuestionDifficultyEasy   QuestionDifficulty = "EASY"
	QuestionDifficultyMedium QuestionDifficulty = "MEDIUM"
	QuestionDifficultyHard   QuestionDifficulty = "HARD"
)

// Valid reports whether d is one of the known difficulties.
func (d QuestionDifficulty) Valid() bool {
	switch d {
	case QuestionDifficultyEasy, QuestionDifficultyMedium, QuestionDifficultyHard:
		return true
	}
	return false
}

// SelectItem is one question as shown in the source or target list of the picker.
type SelectItem struct {
	Label string `json:"label" binding:"max=2000"`
	Value int64  `json:"value" binding:"required,gt=0"`
}

// QuestionFilter holds the server-side filters of the question drop-down.
type QuestionFilter struct {
	Description string             `json:"description,omitempty"`
	Subject     string             `json:"subject,omitempty"`
	Difficulty  QuestionDifficulty `json:"difficulty,omitempty"`
}

// CreateQuestionRequest is the payload for registering a question.
type CreateQuestionRequest struct {
	Description string `json:"description" binding:"required,min=1,max=2000"`
	Subject     string `json:"subject" binding:"omitempty,max=120"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=EASY MEDIUM HARD"`
}
