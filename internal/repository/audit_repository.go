package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgp/sgp-backend/internal/model"
)

// AuditRepository writes the exam audit log.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertBatch writes all entries in one statement.
func (r *AuditRepository) InsertBatch(ctx context.Context, entries []model.ExamAuditEntry) error {
	n := len(entries)
	if n == 0 {
		return nil
	}

	examIDs := make([]int64, 0, n)
	actors := make([]int32, 0, n)
	actions := make([]string, 0, n)
	titles := make([]string, 0, n)
	questions := make([]int32, 0, n)
	times := make([]time.Time, 0, n)

	for _, e := range entries {
		examIDs = append(examIDs, e.ExamID)
		actors = append(actors, int32(e.ActorID))
		actions = append(actions, string(e.Action))
		titles = append(titles, e.Title)
		questions = append(questions, int32(e.Questions))
		times = append(times, e.At)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO exam_audit_log (exam_id, actor_id, action, title, questions, occurred_at)
		SELECT * FROM UNNEST(
			$1::bigint[],
			$2::int[],
			$3::varchar[],
			$4::varchar[],
			$5::int[],
			$6::timestamptz[]
		)`,
		examIDs, actors, actions, titles, questions, times,
	)
	return err
}

// Insert writes a single entry.
func (r *AuditRepository) Insert(ctx context.Context, e model.ExamAuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO exam_audit_log (exam_id, actor_id, action, title, questions, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ExamID, e.ActorID, string(e.Action), e.Title, e.Questions, e.At,
	)
	return err
}
