package model

import (
	"time"
)

// Exam represents an exam ("prova") and the questions attached to it.
// A nil ID means the exam has not been persisted yet.
type Exam struct {
	ID                 *int64       `json:"id,omitempty"`
	Title              string       `json:"title"`
	ApprovalPercentage *float64     `json:"approval_percentage"`
	Questions          []SelectItem `json:"questions"`
	AuthorID           int          `json:"author_id,omitempty"`
	CreatedAt          time.Time    `json:"created_at,omitempty"`
	UpdatedAt          time.Time    `json:"updated_at,omitempty"`
}

// IsNew reports whether the exam still lacks a server-assigned identifier.
func (e *Exam) IsNew() bool {
	return e == nil || e.ID == nil
}

// Clone returns a copy that shares no pointers or slices with e.
func (e *Exam) Clone() *Exam {
	if e == nil {
		return &Exam{}
	}
	out := *e
	if e.ID != nil {
		id := *e.ID
		out.ID = &id
	}
	if e.ApprovalPercentage != nil {
		p := *e.ApprovalPercentage
		out.ApprovalPercentage = &p
	}
	if e.Questions != nil {
		out.Questions = append([]SelectItem(nil), e.Questions...)
	}
	return &out
}

// QuestionIDs returns the question values in list order.
func (e *Exam) QuestionIDs() []int64 {
	ids := make([]int64, len(e.Questions))
	for i, q := range e.Questions {
		ids[i] = q.Value
	}
	return ids
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title              string       `json:"title" binding:"required,min=1,max=255"`
	ApprovalPercentage *float64     `json:"approval_percentage" binding:"required,gte=0,lte=100"`
	Questions          []SelectItem `json:"questions" binding:"omitempty,dive"`
}

// UpdateExamRequest is the payload for updating an existing exam.
// Nil fields keep their stored value; a non-nil Questions slice replaces the association.
type UpdateExamRequest struct {
	Title              *string      `json:"title" binding:"omitempty,min=1,max=255"`
	ApprovalPercentage *float64     `json:"approval_percentage" binding:"omitempty,gte=0,lte=100"`
	Questions          []SelectItem `json:"questions" binding:"omitempty,dive"`
}

// ExamEventType enumerates the events published when an exam changes.
type ExamEventType string

const (
	ExamEventCreated ExamEventType = "exam.created"
	ExamEventUpdated ExamEventType = "exam.updated"
)

// ExamEvent is published on the exam events channel and relayed to websocket subscribers.
type ExamEvent struct {
	Type     ExamEventType `json:"type"`
	Exam     Exam          `json:"exam"`
	ActorID  int           `json:"actor_id"`
	Occurred time.Time     `json:"occurred_at"`
}
