// Package outbox delivers events recorded in the transactional outbox and
// keeps the reconciliation record for deliveries that ran out of attempts.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/config"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/internal/metrics"
)

type outboxRepo interface {
	Claim(ctx context.Context, id uuid.UUID, now, until time.Time) (*domain.OutboxMessage, error)
	Release(ctx context.Context, id uuid.UUID) error
	PendingIDs(ctx context.Context, olderThan, now time.Time, limit int) ([]uuid.UUID, error)
	MarkSent(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error
	MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error
	Requeue(ctx context.Context, id uuid.UUID) error

	InsertDeadLetter(ctx context.Context, dl domain.DeadLetter) error
	ListDeadLetters(ctx context.Context, unresolvedOnly bool, limit int) ([]domain.DeadLetter, error)
	GetDeadLetterForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeadLetter, error)
	ResolveDeadLetter(ctx context.Context, id uuid.UUID, at time.Time) error
}

type publisher interface {
	Publish(ctx context.Context, msg domain.OutboxMessage) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service dispatches outbox rows and runs the forwarder loop.
type Service struct {
	repo      outboxRepo
	publisher publisher
	tx        txManager
	log       *slog.Logger
	cfg       config.OutboxConfig
	now       func() time.Time
}

// NewService creates a new outbox Service.
func NewService(
	log *slog.Logger,
	repo outboxRepo,
	pub publisher,
	tx txManager,
	cfg config.OutboxConfig,
) *Service {
	return &Service{
		repo:      repo,
		publisher: pub,
		tx:        tx,
		log:       log.With("service", "outbox"),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Dispatch publishes one outbox row.
//
// The row is leased for outbox.claim_ttl by a single UPDATE, so a row that is
// already sent, dead or leased by another dispatcher is skipped and Dispatch
// returns nil. Publishing runs with no transaction open. On success the row
// is marked SENT. When the publisher gives up the row is marked DEAD and a
// dead letter is recorded in one short transaction, and the *PublishError is
// returned. Any other failure releases the lease and leaves the row PENDING
// for the forwarder.
func (s *Service) Dispatch(ctx context.Context, id uuid.UUID) error {
	now := s.now().UTC()
	msg, err := s.repo.Claim(ctx, id, now, now.Add(s.cfg.ClaimTTL))
	if errors.Is(err, domain.ErrNotFound) {
		s.log.DebugContext(ctx, "outbox row skipped", slog.String("outbox_id", id.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("dispatch %s: claim: %w", id, err)
	}

	attempts, pubErr := s.publisher.Publish(ctx, *msg)

	var publishErr *PublishError
	switch {
	case pubErr == nil:
		if err := s.repo.MarkSent(ctx, msg.ID, attempts, s.now().UTC()); err != nil {
			return fmt.Errorf("dispatch %s: mark sent: %w", id, err)
		}
		s.log.DebugContext(ctx, "event published",
			slog.String("outbox_id", msg.ID.String()),
			slog.String("event_type", msg.EventType.String()),
		)
		return nil
	case errors.As(pubErr, &publishErr):
		if err := s.deadLetter(ctx, msg, attempts, publishErr); err != nil {
			return fmt.Errorf("dispatch %s: %w", id, err)
		}
		metrics.EventsDeadLettered.WithLabelValues(msg.EventType.String()).Inc()
		s.log.ErrorContext(ctx, "event dead-lettered",
			slog.String("outbox_id", msg.ID.String()),
			slog.String("event_type", msg.EventType.String()),
			slog.String("book_id", msg.AggregateID.String()),
			slog.Int("attempts", publishErr.Attempts),
			slog.String("error", publishErr.Err.Error()),
		)
		return publishErr
	default:
		if err := s.repo.Release(context.WithoutCancel(ctx), msg.ID); err != nil {
			s.log.WarnContext(ctx, "outbox lease not released",
				slog.String("outbox_id", msg.ID.String()),
				slog.String("error", err.Error()),
			)
		}
		return fmt.Errorf("dispatch %s: %w", id, pubErr)
	}
}

func (s *Service) deadLetter(ctx context.Context, msg *domain.OutboxMessage, attempts int, publishErr *PublishError) error {
	lastErr := publishErr.Err.Error()
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.MarkDead(txCtx, msg.ID, attempts, lastErr); err != nil {
			return fmt.Errorf("mark dead: %w", err)
		}
		if err := s.repo.InsertDeadLetter(txCtx, domain.DeadLetter{
			ID:          uuid.New(),
			OutboxID:    msg.ID,
			EventType:   msg.EventType,
			AggregateID: msg.AggregateID,
			Attempts:    msg.Attempts + attempts,
			LastError:   lastErr,
			CreatedAt:   s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("insert dead letter: %w", err)
		}
		return nil
	})
}

// RunOnce dispatches up to outbox.batch_size unleased PENDING rows older than
// the grace period and returns how many were handled. Rows that end up
// dead-lettered count as handled; other failures are joined and returned
// after the whole batch has been tried.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	ids, err := s.repo.PendingIDs(ctx, s.now().Add(-s.cfg.GracePeriod), s.now(), s.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending: %w", err)
	}
	metrics.OutboxBacklog.Set(float64(len(ids)))

	var (
		handled int
		errs    []error
	)
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		err := s.Dispatch(ctx, id)
		if err == nil || errors.Is(err, domain.ErrPublish) {
			handled++
			continue
		}
		errs = append(errs, err)
	}

	return handled, errors.Join(errs...)
}

// Run polls the outbox every poll interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "forwarder started",
		slog.Duration("poll_interval", s.cfg.PollInterval),
		slog.Int("batch_size", s.cfg.BatchSize),
	)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "forwarder stopped")
			return nil
		case <-ticker.C:
			n, err := s.RunOnce(ctx)
			if err != nil && ctx.Err() == nil {
				s.log.ErrorContext(ctx, "forwarder pass failed", slog.String("error", err.Error()))
			}
			if n > 0 {
				s.log.InfoContext(ctx, "forwarder pass", slog.Int("handled", n))
			}
		}
	}
}
