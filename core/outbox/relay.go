package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

var ErrNotFound = core.NewNotFoundError("outbox entry not found")

type (
	Repository interface {
		CreateEntry(ctx context.Context, e Entry) (Entry, error)
		GetEntryByID(ctx context.Context, id string) (Entry, error)
		// QueryPendingEntries returns at most limit pending entries, oldest first.
		QueryPendingEntries(ctx context.Context, limit int) ([]Entry, error)
		UpdateEntry(ctx context.Context, e Entry) (Entry, error)
	}

	// Handler performs the follow-up write of an Entry.
	Handler func(ctx context.Context, e Entry) error

	// Outbox is what services need to schedule follow-up writes.
	Outbox interface {
		Register(kind string, h Handler)
		Enqueue(ctx context.Context, kind, ref string, values ...string) (Entry, error)
		// Dispatch runs the entry handler now, recording the outcome on the entry.
		Dispatch(ctx context.Context, e Entry) error
		Cancel(ctx context.Context, e Entry, reason string) error
	}

	// Relay is the Outbox implementation. Run polls pending entries so that follow-ups whose
	// immediate dispatch failed are retried until they succeed or exhaust their attempts.
	Relay struct {
		repo        Repository
		logger      core.Logger
		interval    time.Duration
		batchSize   int
		maxAttempts int

		mu       sync.RWMutex
		handlers map[string]Handler
	}
)

var _ Outbox = (*Relay)(nil)

func NewRelay(repo Repository, logger core.Logger, conf core.OutboxConfig) *Relay {
	r := &Relay{
		repo:        repo,
		logger:      logger,
		interval:    conf.Interval,
		batchSize:   conf.BatchSize,
		maxAttempts: conf.MaxAttempts,
		handlers:    make(map[string]Handler),
	}
	if r.interval <= 0 {
		r.interval = 2 * time.Second
	}
	if r.batchSize <= 0 {
		r.batchSize = 50
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = 10
	}
	return r
}

func (r *Relay) Register(kind string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

func (r *Relay) handler(kind string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

func (r *Relay) Enqueue(ctx context.Context, kind, ref string, values ...string) (Entry, error) {
	if _, ok := r.handler(kind); !ok {
		return Entry{}, errors.Errorf("no outbox handler registered for %q", kind)
	}
	now := core.Now()
	if values == nil {
		values = []string{}
	}
	e, err := r.repo.CreateEntry(ctx, Entry{
		Kind:      kind,
		Ref:       ref,
		Values:    values,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return e, errors.Wrap(err, "creating outbox entry")
}

func (r *Relay) Dispatch(ctx context.Context, e Entry) error {
	h, ok := r.handler(e.Kind)
	if !ok {
		return errors.Errorf("no outbox handler registered for %q", e.Kind)
	}

	e.Attempts++
	e.UpdatedAt = core.Now()
	herr := h(ctx, e)
	if herr == nil {
		e.Status = StatusDone
		e.LastError = ""
	} else {
		e.LastError = herr.Error()
		if e.Attempts >= r.maxAttempts {
			e.Status = StatusDead
			r.logger.Error(fmt.Sprintf("outbox entry %s (%s) gave up after %d attempts", e.ID, e.Kind, e.Attempts), herr)
		}
	}

	if _, err := r.repo.UpdateEntry(ctx, e); err != nil {
		if herr != nil {
			return errors.Wrap(herr, "handling outbox entry")
		}
		return errors.Wrap(err, "recording outbox entry outcome")
	}
	return errors.Wrap(herr, "handling outbox entry")
}

func (r *Relay) Cancel(ctx context.Context, e Entry, reason string) error {
	e.Status = StatusCancelled
	e.LastError = reason
	e.UpdatedAt = core.Now()
	_, err := r.repo.UpdateEntry(ctx, e)
	return errors.Wrap(err, "cancelling outbox entry")
}

// Flush dispatches one batch of pending entries and returns how many succeeded.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	entries, err := r.repo.QueryPendingEntries(ctx, r.batchSize)
	if err != nil {
		return 0, errors.Wrap(err, "querying pending outbox entries")
	}
	var done int
	for _, e := range entries {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if err := r.Dispatch(ctx, e); err != nil {
			r.logger.Warn(fmt.Sprintf("outbox entry %s (%s) failed, attempt %d", e.ID, e.Kind, e.Attempts+1), err)
			continue
		}
		done++
	}
	return done, nil
}

// Run flushes pending entries every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if n, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("flushing outbox", err)
			} else if n > 0 {
				r.logger.Debug(fmt.Sprintf("outbox relay handled %d entries", n))
			}
		}
	}
}
