package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgp/sgp-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam and its questions in list order.
// Returns pgx.ErrNoRows when the exam does not exist.
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, approval_percentage, author_id, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.ApprovalPercentage, &e.AuthorID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Questions, err = r.listQuestionItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ExamRepository) listQuestionItems(ctx context.Context, examID int64) ([]model.SelectItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.description
		 FROM exam_questions eq
		 JOIN questions q ON q.id = eq.question_id
		 WHERE eq.exam_id = $1
		 ORDER BY eq.position`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.SelectItem{}
	for rows.Next() {
		var it model.SelectItem
		if err := rows.Scan(&it.Value, &it.Label); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListPaginated retrieves exams newest first. Questions are not loaded.
func (r *ExamRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Exam, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exams`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, title, approval_percentage, author_id, created_at, updated_at
		 FROM exams
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.ApprovalPercentage, &e.AuthorID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		exams = append(exams, e)
	}
	return exams, total, rows.Err()
}

// Create inserts a new exam and its question associations in one transaction.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO exams (title, approval_percentage, author_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.ApprovalPercentage, e.AuthorID,
	).Scan(&id, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return err
	}
	e.ID = &id

	if err := insertExamQuestions(ctx, tx, id, e.QuestionIDs()); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update applies a partial update. Nil title or percentage keep the stored
// value; a nil questions slice keeps the stored association, any other slice
// (including an empty one) replaces it.
// Returns pgx.ErrNoRows when the exam does not exist.
func (r *ExamRepository) Update(ctx context.Context, id int64, title *string, percentage *float64, questionIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE exams
		 SET title = COALESCE($1, title),
		     approval_percentage = COALESCE($2, approval_percentage),
		     updated_at = NOW()
		 WHERE id = $3`,
		title, percentage, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if questionIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM exam_questions WHERE exam_id = $1`, id); err != nil {
			return err
		}
		if err := insertExamQuestions(ctx, tx, id, questionIDs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// insertExamQuestions stores the association with positions following slice order.
func insertExamQuestions(ctx context.Context, tx pgx.Tx, examID int64, questionIDs []int64) error {
	if len(questionIDs) == 0 {
		return nil
	}

	positions := make([]int32, len(questionIDs))
	for i := range questionIDs {
		positions[i] = int32(i)
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO exam_questions (exam_id, question_id, position)
		 SELECT $1, u.question_id, u.position
		 FROM UNNEST($2::bigint[], $3::int[]) AS u (question_id, position)`,
		examID, questionIDs, positions,
	)
	return err
}
