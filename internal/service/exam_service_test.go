package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ──────────────────────────────────────────────────────────────────

type mockExamStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Exam, error)
	createFn  func(ctx context.Context, e *model.Exam) error
	updateFn  func(ctx context.Context, id int64, title *string, percentage *float64, questionIDs []int64) error
	gets      int
}

func (m *mockExamStore) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	m.gets++
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockExamStore) ListPaginated(context.Context, int, int) ([]model.Exam, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (m *mockExamStore) Create(ctx context.Context, e *model.Exam) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	return errors.New("not implemented")
}

func (m *mockExamStore) Update(ctx context.Context, id int64, title *string, percentage *float64, questionIDs []int64) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, title, percentage, questionIDs)
	}
	return errors.New("not implemented")
}

type mockQuestionCounter struct {
	countFn func(ctx context.Context, ids []int64) (int, error)
}

func (m *mockQuestionCounter) CountExisting(ctx context.Context, ids []int64) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, ids)
	}
	return len(ids), nil
}

// fakeRedis keeps string values in a map and records publishes and pushes.
type fakeRedis struct {
	values    map[string]string
	getErr    error
	published map[string][]string
	pushed    map[string][]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values:    map[string]string{},
		published: map[string][]string{},
		pushed:    map[string][]string{},
	}
}

func (r *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if r.getErr != nil {
		return redis.NewStringResult("", r.getErr)
	}
	v, ok := r.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (r *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	r.values[key] = asString(value)
	return redis.NewStatusResult("OK", nil)
}

func (r *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	r.published[channel] = append(r.published[channel], asString(message))
	return redis.NewIntResult(1, nil)
}

func (r *fakeRedis) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		r.pushed[key] = append(r.pushed[key], asString(v))
	}
	return redis.NewIntResult(int64(len(r.pushed[key])), nil)
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	}
	return ""
}

func newTestExamService(store *mockExamStore, questions *mockQuestionCounter, rdb *fakeRedis) *ExamService {
	if questions == nil {
		questions = &mockQuestionCounter{}
	}
	return NewExamService(store, questions, rdb, &config.Config{ExamCacheTTL: time.Minute}, zerolog.Nop())
}

func storedExam(id int64, title string, items ...model.SelectItem) *model.Exam {
	pct := 70.0
	return &model.Exam{ID: &id, Title: title, ApprovalPercentage: &pct, Questions: items}
}

// ─── GetByID ────────────────────────────────────────────────────────────────

func TestGetByIDCachesOnMiss(t *testing.T) {
	rdb := newFakeRedis()
	store := &mockExamStore{getByIDFn: func(_ context.Context, id int64) (*model.Exam, error) {
		return storedExam(id, "Prova 1"), nil
	}}
	svc := newTestExamService(store, nil, rdb)

	exam, err := svc.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Prova 1", exam.Title)
	assert.Contains(t, rdb.values, config.CacheKey.ExamPayloadKey(5))

	// Second read is served from the cache.
	again, err := svc.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Prova 1", again.Title)
	assert.Equal(t, 1, store.gets)
}

func TestGetByIDCorruptPayloadReloads(t *testing.T) {
	rdb := newFakeRedis()
	rdb.values[config.CacheKey.ExamPayloadKey(5)] = "{not json"
	store := &mockExamStore{getByIDFn: func(_ context.Context, id int64) (*model.Exam, error) {
		return storedExam(id, "Prova recarregada"), nil
	}}
	svc := newTestExamService(store, nil, rdb)

	exam, err := svc.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Prova recarregada", exam.Title)
	assert.Equal(t, 1, store.gets)

	var cached model.Exam
	require.NoError(t, json.Unmarshal([]byte(rdb.values[config.CacheKey.ExamPayloadKey(5)]), &cached))
	assert.Equal(t, "Prova recarregada", cached.Title)
}

func TestGetByIDCacheErrorFallsBackToStore(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	store := &mockExamStore{getByIDFn: func(_ context.Context, id int64) (*model.Exam, error) {
		return storedExam(id, "Prova 1"), nil
	}}
	svc := newTestExamService(store, nil, rdb)

	exam, err := svc.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Prova 1", exam.Title)
}

func TestGetByIDNotFound(t *testing.T) {
	store := &mockExamStore{getByIDFn: func(context.Context, int64) (*model.Exam, error) {
		return nil, pgx.ErrNoRows
	}}
	svc := newTestExamService(store, nil, newFakeRedis())

	_, err := svc.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrExamNotFound)
}

// ─── Create ─────────────────────────────────────────────────────────────────

func TestCreateDedupesQuestionsAndNotifies(t *testing.T) {
	rdb := newFakeRedis()
	var saved *model.Exam
	store := &mockExamStore{
		createFn: func(_ context.Context, e *model.Exam) error {
			saved = e.Clone()
			id := int64(11)
			e.ID = &id
			return nil
		},
		getByIDFn: func(_ context.Context, id int64) (*model.Exam, error) {
			return storedExam(id, saved.Title, saved.Questions...), nil
		},
	}
	svc := newTestExamService(store, nil, rdb)

	pct := 70.0
	in := &model.Exam{
		Title:              "Prova 1",
		ApprovalPercentage: &pct,
		Questions: []model.SelectItem{
			{Label: "a", Value: 1}, {Label: "b", Value: 2}, {Label: "a again", Value: 1},
		},
	}
	out, err := svc.Create(context.Background(), 3, in)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, saved.QuestionIDs())
	assert.Equal(t, 3, saved.AuthorID)
	require.NotNil(t, out.ID)
	assert.Equal(t, int64(11), *out.ID)

	// Cache refreshed with the stored exam.
	var cached model.Exam
	require.NoError(t, json.Unmarshal([]byte(rdb.values[config.CacheKey.ExamPayloadKey(11)]), &cached))
	assert.Equal(t, []int64{1, 2}, cached.QuestionIDs())

	// Event published.
	events := rdb.published[config.CacheKey.ExamEventsChannel()]
	require.Len(t, events, 1)
	var evt model.ExamEvent
	require.NoError(t, json.Unmarshal([]byte(events[0]), &evt))
	assert.Equal(t, model.ExamEventCreated, evt.Type)
	assert.Equal(t, 3, evt.ActorID)

	// Audit entry queued.
	audits := rdb.pushed[config.WorkerKey.PersistExamAuditQueue]
	require.Len(t, audits, 1)
	var entry model.ExamAuditEntry
	require.NoError(t, json.Unmarshal([]byte(audits[0]), &entry))
	assert.Equal(t, int64(11), entry.ExamID)
	assert.Equal(t, model.ExamEventCreated, entry.Action)
	assert.Equal(t, 2, entry.Questions)
}

func TestCreateUnknownQuestion(t *testing.T) {
	rdb := newFakeRedis()
	questions := &mockQuestionCounter{countFn: func(context.Context, []int64) (int, error) { return 1, nil }}
	svc := newTestExamService(&mockExamStore{}, questions, rdb)

	_, err := svc.Create(context.Background(), 3, &model.Exam{
		Title:     "Prova 1",
		Questions: []model.SelectItem{{Value: 1}, {Value: 99}},
	})
	assert.ErrorIs(t, err, ErrUnknownQuestion)
	assert.Empty(t, rdb.published)
	assert.Empty(t, rdb.pushed)
}

// ─── Update ─────────────────────────────────────────────────────────────────

func TestUpdateDedupesQuestionsAndNotifies(t *testing.T) {
	rdb := newFakeRedis()
	rdb.values[config.CacheKey.ExamPayloadKey(4)] = `{"id":4,"title":"antigo"}`

	var gotIDs []int64
	var gotTitle *string
	store := &mockExamStore{
		updateFn: func(_ context.Context, _ int64, title *string, _ *float64, ids []int64) error {
			gotTitle, gotIDs = title, ids
			return nil
		},
		getByIDFn: func(_ context.Context, id int64) (*model.Exam, error) {
			return storedExam(id, "novo", model.SelectItem{Value: 2}, model.SelectItem{Value: 1}), nil
		},
	}
	svc := newTestExamService(store, nil, rdb)

	title := "novo"
	_, err := svc.Update(context.Background(), 3, 4, model.UpdateExamRequest{
		Title:     &title,
		Questions: []model.SelectItem{{Value: 2}, {Value: 1}, {Value: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 1}, gotIDs)
	require.NotNil(t, gotTitle)
	assert.Equal(t, "novo", *gotTitle)

	var cached model.Exam
	require.NoError(t, json.Unmarshal([]byte(rdb.values[config.CacheKey.ExamPayloadKey(4)]), &cached))
	assert.Equal(t, "novo", cached.Title)

	events := rdb.published[config.CacheKey.ExamEventsChannel()]
	require.Len(t, events, 1)
	assert.Contains(t, events[0], string(model.ExamEventUpdated))
	assert.Len(t, rdb.pushed[config.WorkerKey.PersistExamAuditQueue], 1)
}

func TestUpdateKeepsAssociationsWhenQuestionsOmitted(t *testing.T) {
	gotIDs := []int64{-1}
	store := &mockExamStore{
		updateFn: func(_ context.Context, _ int64, _ *string, _ *float64, ids []int64) error {
			gotIDs = ids
			return nil
		},
		getByIDFn: func(_ context.Context, id int64) (*model.Exam, error) {
			return storedExam(id, "Prova"), nil
		},
	}
	svc := newTestExamService(store, nil, newFakeRedis())

	_, err := svc.Update(context.Background(), 3, 4, model.UpdateExamRequest{})
	require.NoError(t, err)
	assert.Nil(t, gotIDs)
}

func TestUpdateNotFound(t *testing.T) {
	rdb := newFakeRedis()
	store := &mockExamStore{
		updateFn: func(context.Context, int64, *string, *float64, []int64) error { return pgx.ErrNoRows },
	}
	svc := newTestExamService(store, nil, rdb)

	_, err := svc.Update(context.Background(), 3, 4, model.UpdateExamRequest{})
	assert.ErrorIs(t, err, ErrExamNotFound)
	assert.Empty(t, rdb.published)
}

// ─── List ───────────────────────────────────────────────────────────────────

type listingExamStore struct {
	mockExamStore
	limit, offset int
}

func (m *listingExamStore) ListPaginated(_ context.Context, limit, offset int) ([]model.Exam, int, error) {
	m.limit, m.offset = limit, offset
	return nil, 0, nil
}

func TestListClampsHugePage(t *testing.T) {
	store := &listingExamStore{}
	svc := NewExamService(store, &mockQuestionCounter{}, newFakeRedis(), &config.Config{}, zerolog.Nop())

	exams, _, err := svc.List(context.Background(), math.MaxInt, 100)
	require.NoError(t, err)
	assert.Empty(t, exams)
	assert.Equal(t, 100, store.limit)
	assert.GreaterOrEqual(t, store.offset, 0)
}
