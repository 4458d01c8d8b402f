package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgp/sgp-backend/internal/model"
)

// questionSortColumns whitelists the drop-down sort fields.
var questionSortColumns = map[string]string{
	"id":          "id",
	"description": "description",
	"subject":     "subject",
	"difficulty":  "difficulty",
	"created_at":  "created_at",
}

// IsQuestionSortField reports whether field can be used to sort the drop-down.
func IsQuestionSortField(field string) bool {
	_, ok := questionSortColumns[field]
	return ok
}

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (description, subject, difficulty, author_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		q.Description, q.Subject, q.Difficulty, q.AuthorID,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// ListForDropdown returns one page of questions as select items plus the
// number of questions matching the filter.
func (r *QuestionRepository) ListForDropdown(ctx context.Context, f model.QuestionFilter, limit, offset int, sort *model.Sort) ([]model.SelectItem, int, error) {
	where, args := questionWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, description FROM questions` + where + questionOrderBy(sort) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.SelectItem{}
	for rows.Next() {
		var it model.SelectItem
		if err := rows.Scan(&it.Value, &it.Label); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// CountExisting returns how many of ids exist.
func (r *QuestionRepository) CountExisting(ctx context.Context, ids []int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE id = ANY($1::bigint[])`, ids,
	).Scan(&n)
	return n, err
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func questionWhere(f model.QuestionFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if d := strings.TrimSpace(f.Description); d != "" {
		args = append(args, "%"+likeEscaper.Replace(d)+"%")
		conds = append(conds, "description ILIKE $"+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}
	if s := strings.TrimSpace(f.Subject); s != "" {
		args = append(args, s)
		conds = append(conds, "subject = $"+strconv.Itoa(len(args)))
	}
	if f.Difficulty != "" {
		args = append(args, f.Difficulty)
		conds = append(conds, "difficulty = $"+strconv.Itoa(len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func questionOrderBy(sort *model.Sort) string {
	if sort == nil {
		return " ORDER BY id"
	}
	col, ok := questionSortColumns[sort.Field]
	if !ok {
		return " ORDER BY id"
	}
	dir := "ASC"
	if sort.Direction == model.SortDesc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", id"
}
