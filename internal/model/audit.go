package model

import "time"

// ExamAuditEntry records who changed an exam and how. Entries travel through
// the audit queue before being persisted in batches.
type ExamAuditEntry struct {
	ExamID    int64         `json:"exam_id"`
	ActorID   int           `json:"actor_id"`
	Action    ExamEventType `json:"action"`
	Title     string        `json:"title"`
	Questions int           `json:"questions"`
	At        time.Time     `json:"at"`
}
