package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/model"
)

const (
	AuditBatchSize    = 50
	AuditBatchTimeout = 2 * time.Second
	AuditPollTimeout  = 1 * time.Second
)

// auditStore persists audit entries. Implemented by repository.AuditRepository.
type auditStore interface {
	InsertBatch(ctx context.Context, entries []model.ExamAuditEntry) error
	Insert(ctx context.Context, entry model.ExamAuditEntry) error
}

// auditQueue is the part of redis.Client the worker uses.
type auditQueue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// AuditWorker drains the exam audit queue into exam_audit_log in batches.
type AuditWorker struct {
	store auditStore
	queue auditQueue
	log   zerolog.Logger
}

func NewAuditWorker(store auditStore, queue auditQueue, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		store: store,
		queue: queue,
		log:   log.With().Str("component", "audit_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled, then flushes what it holds.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	batch := make([]model.ExamAuditEntry, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.queue.BLPop(ctx, AuditPollTimeout, config.WorkerKey.PersistExamAuditQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			entry, ok := w.decode(item)
			if !ok {
				continue
			}
			batch = append(batch, entry)
		}
	}
}

// decode parses a BLPop result ([key, value]).
func (w *AuditWorker) decode(item []string) (model.ExamAuditEntry, bool) {
	var e model.ExamAuditEntry
	if len(item) < 2 {
		return e, false
	}
	if err := json.Unmarshal([]byte(item[1]), &e); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return e, false
	}
	return e, true
}

// flushSafe tries one bulk insert, then falls back to row-by-row inserts and
// requeues the rows that still fail.
func (w *AuditWorker) flushSafe(ctx context.Context, batch []model.ExamAuditEntry) {
	if len(batch) == 0 {
		return
	}

	err := w.store.InsertBatch(ctx, batch)
	if err == nil {
		w.log.Debug().Int("count", len(batch)).Msg("Audit batch persisted")
		return
	}

	w.log.Warn().Err(err).Msg("Bulk audit insert failed, using fallback")

	for _, e := range batch {
		if err := w.store.Insert(ctx, e); err != nil {
			w.log.Error().Err(err).Int64("exam_id", e.ExamID).Msg("Insert failed, requeueing")
			raw, _ := json.Marshal(e)
			w.queue.RPush(ctx, config.WorkerKey.PersistExamAuditQueue, raw)
		}
	}
}
