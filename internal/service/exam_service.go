package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/picklist"
	"github.com/sgp/sgp-backend/internal/response"
)

// Domain Errors
var (
	ErrExamNotFound    = errors.New("exam not found")
	ErrUnknownQuestion = errors.New("exam references a question that does not exist")
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a failed FK check.
const foreignKeyViolation = "23503"

// examStore is the persistence ExamService needs; *repository.ExamRepository satisfies it.
type examStore interface {
	GetByID(ctx context.Context, id int64) (*model.Exam, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.Exam, int, error)
	Create(ctx context.Context, e *model.Exam) error
	Update(ctx context.Context, id int64, title *string, percentage *float64, questionIDs []int64) error
}

type questionCounter interface {
	CountExisting(ctx context.Context, ids []int64) (int, error)
}

// examRedis is the part of redis.Client used for the payload cache, the
// events channel and the audit queue.
type examRedis interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// ExamService handles exam business logic, the exam payload cache, exam
// events and the audit queue.
type ExamService struct {
	examRepo     examStore
	questionRepo questionCounter
	rdb          examRedis
	cacheTTL     time.Duration
	log          zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo examStore,
	questionRepo questionCounter,
	rdb examRedis,
	cfg *config.Config,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		cacheTTL:     cfg.ExamCacheTTL,
		log:          log.With().Str("component", "exam_service").Logger(),
	}
}

// GetByID returns an exam with its questions, reading through the Redis cache.
func (s *ExamService) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	key := config.CacheKey.ExamPayloadKey(id)

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var exam model.Exam
		if err := json.Unmarshal(data, &exam); err == nil {
			return &exam, nil
		}
		s.log.Warn().Int64("exam_id", id).Msg("Corrupt cached exam payload, reloading")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Int64("exam_id", id).Msg("Exam cache read failed")
	}

	exam, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, exam)
	return exam, nil
}

// List retrieves exams newest first.
func (s *ExamService) List(ctx context.Context, page, perPage int) ([]model.Exam, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if page > model.MaxPageIndex {
		page = model.MaxPageIndex
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > model.MaxPageSize {
		perPage = model.MaxPageSize
	}

	exams, total, err := s.examRepo.ListPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if exams == nil {
		exams = []model.Exam{}
	}

	return exams, response.NewPagination(page, perPage, total), nil
}

// Create stores a new exam with its questions. Repeated questions are
// collapsed to their first occurrence.
func (s *ExamService) Create(ctx context.Context, actorID int, exam *model.Exam) (*model.Exam, error) {
	exam.ID = nil
	exam.AuthorID = actorID
	exam.Questions = picklist.RemoveRepetitions(exam.Questions)

	if err := s.checkQuestions(ctx, exam.QuestionIDs()); err != nil {
		return nil, err
	}

	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, mapWriteError(err)
	}

	stored, err := s.load(ctx, *exam.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("exam_id", *stored.ID).Int("actor_id", actorID).Msg("Exam created")
	s.afterWrite(ctx, model.ExamEventCreated, actorID, stored)
	return stored, nil
}

// Update applies a partial update to an existing exam.
func (s *ExamService) Update(ctx context.Context, actorID int, id int64, req model.UpdateExamRequest) (*model.Exam, error) {
	var questionIDs []int64
	if req.Questions != nil {
		deduped := &model.Exam{Questions: picklist.RemoveRepetitions(req.Questions)}
		questionIDs = deduped.QuestionIDs()
		if err := s.checkQuestions(ctx, questionIDs); err != nil {
			return nil, err
		}
	}

	if err := s.examRepo.Update(ctx, id, req.Title, req.ApprovalPercentage, questionIDs); err != nil {
		return nil, mapWriteError(err)
	}

	stored, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("exam_id", id).Int("actor_id", actorID).Msg("Exam updated")
	s.afterWrite(ctx, model.ExamEventUpdated, actorID, stored)
	return stored, nil
}

func (s *ExamService) load(ctx context.Context, id int64) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

func (s *ExamService) checkQuestions(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.questionRepo.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if n != len(ids) {
		return ErrUnknownQuestion
	}
	return nil
}

// afterWrite refreshes the cache, publishes the exam event and queues the
// audit entry. The database write already succeeded, so failures are only logged.
func (s *ExamService) afterWrite(ctx context.Context, kind model.ExamEventType, actorID int, exam *model.Exam) {
	s.cache(ctx, exam)

	now := time.Now().UTC()

	event, err := json.Marshal(model.ExamEvent{Type: kind, Exam: *exam, ActorID: actorID, Occurred: now})
	if err == nil {
		err = s.rdb.Publish(ctx, config.CacheKey.ExamEventsChannel(), event).Err()
	}
	if err != nil {
		s.log.Warn().Err(err).Int64("exam_id", *exam.ID).Msg("Failed to publish exam event")
	}

	entry, err := json.Marshal(model.ExamAuditEntry{
		ExamID:    *exam.ID,
		ActorID:   actorID,
		Action:    kind,
		Title:     exam.Title,
		Questions: len(exam.Questions),
		At:        now,
	})
	if err == nil {
		err = s.rdb.RPush(ctx, config.WorkerKey.PersistExamAuditQueue, entry).Err()
	}
	if err != nil {
		s.log.Warn().Err(err).Int64("exam_id", *exam.ID).Msg("Failed to queue exam audit entry")
	}
}

func (s *ExamService) cache(ctx context.Context, exam *model.Exam) {
	data, err := json.Marshal(exam)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamPayloadKey(*exam.ID), data, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Int64("exam_id", *exam.ID).Msg("Failed to cache exam")
	}
}

func mapWriteError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrExamNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return ErrUnknownQuestion
	}
	return err
}
