package segment

import (
	"context"
	"sync"
	"time"

	"segmentReco/domain"
	"segmentReco/pkg/logger"

	"github.com/google/uuid"
)

// PredictionLogRepository is the append-only audit store.
type PredictionLogRepository interface {
	Create(ctx context.Context, log *domain.PredictionLog) error
}

// SegmentRepository stores the last cluster of each user.
type SegmentRepository interface {
	Upsert(ctx context.Context, seg *domain.UserSegment) error
	FindByUserID(ctx context.Context, userID uint) (*domain.UserSegment, error)
}

// AuditConfig controls the emitter's buffer. BufferSize 0 writes synchronously
// on the calling goroutine.
type AuditConfig struct {
	BufferSize   int
	WriteTimeout time.Duration
}

// AuditEmitter writes prediction records without ever failing the caller.
// Failed or dropped writes are logged and counted, nothing more.
type AuditEmitter struct {
	logs     PredictionLogRepository
	segments SegmentRepository
	timeout  time.Duration

	records chan *domain.PredictionLog
	stop    chan struct{}
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewAuditEmitter(logs PredictionLogRepository, segments SegmentRepository, cfg AuditConfig) *AuditEmitter {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	e := &AuditEmitter{
		logs:     logs,
		segments: segments,
		timeout:  cfg.WriteTimeout,
		stop:     make(chan struct{}),
	}
	if cfg.BufferSize > 0 {
		e.records = make(chan *domain.PredictionLog, cfg.BufferSize)
		e.wg.Add(1)
		go e.run()
	}

	return e
}

func (e *AuditEmitter) run() {
	defer e.wg.Done()

	for {
		select {
		case <-e.stop:
			for {
				select {
				case rec := <-e.records:
					e.write(rec)
				default:
					return
				}
			}
		case rec := <-e.records:
			e.write(rec)
		}
	}
}

// Emit hands a record to the store. It never blocks on a full buffer and
// never reports an error.
func (e *AuditEmitter) Emit(rec *domain.PredictionLog) {
	if e == nil || rec == nil {
		return
	}
	if rec.RequestID == "" {
		rec.RequestID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		logger.Warn("audit emitter closed, dropping prediction record", "request_id", rec.RequestID)
		auditFailures.Inc()
		return
	}

	if e.records == nil {
		e.write(rec)
		return
	}

	select {
	case e.records <- rec:
	default:
		logger.Warn("audit buffer full, dropping prediction record", "request_id", rec.RequestID)
		auditFailures.Inc()
	}
}

func (e *AuditEmitter) write(rec *domain.PredictionLog) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("audit write panicked", "request_id", rec.RequestID, "panic", r)
			auditFailures.Inc()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if e.logs != nil {
		if err := e.logs.Create(ctx, rec); err != nil {
			logger.Warn("failed to save prediction log",
				"request_id", rec.RequestID,
				"user_id", rec.UserID,
				"cluster", rec.PredictedCluster,
				"error", err,
			)
			auditFailures.Inc()
		}
	}

	if e.segments != nil && rec.UserID != 0 {
		seg := &domain.UserSegment{UserID: rec.UserID, Cluster: rec.PredictedCluster}
		if err := e.segments.Upsert(ctx, seg); err != nil {
			logger.Warn("failed to store user segment",
				"request_id", rec.RequestID,
				"user_id", rec.UserID,
				"error", err,
			)
			auditFailures.Inc()
		}
	}
}

// Close stops accepting records and drains the buffer.
func (e *AuditEmitter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	close(e.stop)
	e.wg.Wait()
	return nil
}
