package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tastien/teamup/internal/document"
	"github.com/tastien/teamup/internal/metrics"
	"github.com/tastien/teamup/internal/model"
)

const (
	// DefaultMaxAttempts bounds one logical operation to three full
	// read-modify-write cycles.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the first retry delay; it doubles per attempt.
	DefaultBaseDelay = 1 * time.Second
)

// RoomRepository synchronizes room mutations against the document store.
type RoomRepository struct {
	store       document.Store
	version     string
	maxAttempts uint64
	baseDelay   time.Duration
	metrics     *metrics.Metrics
	now         func() time.Time
}

// RoomRepositoryConfig holds configuration for the room repository.
type RoomRepositoryConfig struct {
	Store       document.Store
	Version     string // schema version stamped on every write
	MaxAttempts int    // optional, defaults to DefaultMaxAttempts
	BaseDelay   time.Duration
	Metrics     *metrics.Metrics // optional
	Now         func() time.Time // optional, for tests
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(cfg RoomRepositoryConfig) *RoomRepository {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &RoomRepository{
		store:       cfg.Store,
		version:     cfg.Version,
		maxAttempts: uint64(maxAttempts),
		baseDelay:   baseDelay,
		metrics:     cfg.Metrics,
		now:         now,
	}
}

// Rooms fetches the document and returns its room list. A document without
// a rooms field yields an empty list.
func (r *RoomRepository) Rooms(ctx context.Context) ([]model.TeamRoom, error) {
	snap, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Data.Rooms == nil {
		return []model.TeamRoom{}, nil
	}
	return snap.Data.Rooms, nil
}

// Mutate runs one full read-modify-write cycle: load a snapshot, apply the
// mutation to a private copy, write the whole document back conditioned on
// the snapshot's revision. On document.ErrConflict or document.ErrTimeout
// the cycle is retried from the fetch with exponential backoff, bounded to
// the configured attempts. A mutation error aborts without writing and is
// never retried.
func (r *RoomRepository) Mutate(ctx context.Context, mutate func(doc *model.RoomsDocument) error) error {
	cycle := func() error {
		snap, err := r.store.Load(ctx)
		if err != nil {
			return retryableOnly(err)
		}

		doc := snap.Data
		if err := mutate(&doc); err != nil {
			return backoff.Permanent(err)
		}
		doc.LastUpdated = r.now().UTC()
		doc.Version = r.version

		if err := r.store.Save(ctx, doc, snap.Revision); err != nil {
			return retryableOnly(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.baseDelay
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	notify := func(err error, next time.Duration) {
		r.metrics.IncSyncRetry()
		slog.Warn("retrying document mutation",
			slog.String("error", err.Error()),
			slog.Duration("backoff", next),
		)
	}

	return backoff.RetryNotify(cycle,
		backoff.WithContext(backoff.WithMaxRetries(bo, r.maxAttempts-1), ctx),
		notify,
	)
}

// retryableOnly passes conflict and timeout errors through for retry and
// marks everything else permanent.
func retryableOnly(err error) error {
	if errors.Is(err, document.ErrConflict) || errors.Is(err, document.ErrTimeout) {
		return err
	}
	return backoff.Permanent(err)
}
