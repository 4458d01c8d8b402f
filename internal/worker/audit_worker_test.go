package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	batchErr error
	failOn   map[int64]bool
	batches  [][]model.ExamAuditEntry
	singles  []model.ExamAuditEntry
}

func (s *fakeStore) InsertBatch(_ context.Context, entries []model.ExamAuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batchErr != nil {
		return s.batchErr
	}
	s.batches = append(s.batches, append([]model.ExamAuditEntry(nil), entries...))
	return nil
}

func (s *fakeStore) Insert(_ context.Context, e model.ExamAuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[e.ExamID] {
		return errors.New("insert failed")
	}
	s.singles = append(s.singles, e)
	return nil
}

// fakeQueue serves queued payloads to BLPop and records RPush calls.
type fakeQueue struct {
	mu     sync.Mutex
	items  []string
	pushed []string
}

func (q *fakeQueue) BLPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
	v := q.items[0]
	q.items = q.items[1:]
	return redis.NewStringSliceResult([]string{keys[0], v}, nil)
}

func (q *fakeQueue) RPush(_ context.Context, _ string, values ...interface{}) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, v := range values {
		q.pushed = append(q.pushed, string(v.([]byte)))
	}
	return redis.NewIntResult(int64(len(q.pushed)), nil)
}

func entry(id int64) model.ExamAuditEntry {
	return model.ExamAuditEntry{ExamID: id, ActorID: 1, Action: model.ExamEventCreated, Title: "Prova", At: time.Unix(0, 0).UTC()}
}

func TestFlushSafe_Bulk(t *testing.T) {
	store := &fakeStore{}
	w := NewAuditWorker(store, &fakeQueue{}, zerolog.Nop())

	w.flushSafe(context.Background(), []model.ExamAuditEntry{entry(1), entry(2)})

	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 2)
	assert.Empty(t, store.singles)
}

func TestFlushSafe_FallbackAndRequeue(t *testing.T) {
	store := &fakeStore{batchErr: errors.New("deadlock"), failOn: map[int64]bool{2: true}}
	queue := &fakeQueue{}
	w := NewAuditWorker(store, queue, zerolog.Nop())

	w.flushSafe(context.Background(), []model.ExamAuditEntry{entry(1), entry(2), entry(3)})

	assert.Equal(t, []int64{1, 3}, []int64{store.singles[0].ExamID, store.singles[1].ExamID})
	require.Len(t, queue.pushed, 1)

	var requeued model.ExamAuditEntry
	require.NoError(t, json.Unmarshal([]byte(queue.pushed[0]), &requeued))
	assert.Equal(t, int64(2), requeued.ExamID)
}

func TestDecode(t *testing.T) {
	w := NewAuditWorker(&fakeStore{}, &fakeQueue{}, zerolog.Nop())

	raw, _ := json.Marshal(entry(7))
	e, ok := w.decode([]string{config.WorkerKey.PersistExamAuditQueue, string(raw)})
	require.True(t, ok)
	assert.Equal(t, int64(7), e.ExamID)

	_, ok = w.decode([]string{"k", "{not json"})
	assert.False(t, ok)

	_, ok = w.decode([]string{"k"})
	assert.False(t, ok)
}

func TestStart_FlushesOnShutdown(t *testing.T) {
	raw1, _ := json.Marshal(entry(1))
	raw2, _ := json.Marshal(entry(2))
	store := &fakeStore{}
	queue := &fakeQueue{items: []string{string(raw1), string(raw2)}}
	w := NewAuditWorker(store, queue, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		queue.mu.Lock()
		defer queue.mu.Unlock()
		return len(queue.items) == 0
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	store.mu.Lock()
	defer store.mu.Unlock()
	total := 0
	for _, b := range store.batches {
		total += len(b)
	}
	assert.Equal(t, 2, total)
}
