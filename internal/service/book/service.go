// Package book is the Mutation Orchestrator: it validates book mutations,
// normalizes their references, persists them together with an outbox event
// and hands the event to the dispatcher after commit.
package book

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/config"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/internal/metrics"
	"github.com/heartmarshall/novelnest-inventory/pkg/retry"
)

type bookRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	Create(ctx context.Context, userID uuid.UUID, title string, authorID, genreID uuid.UUID) (*domain.Book, error)
	Update(ctx context.Context, id uuid.UUID, params domain.BookUpdateParams) (*domain.Book, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Book, error)
}

type referenceResolver interface {
	Resolve(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error)
}

type outboxWriter interface {
	Append(ctx context.Context, msg domain.OutboxMessage) error
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, outboxID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides book mutation operations.
type Service struct {
	books      bookRepo
	refs       referenceResolver
	outbox     outboxWriter
	dispatcher eventDispatcher
	tx         txManager
	log        *slog.Logger
	cfg        config.BooksConfig
	now        func() time.Time

	isTransient func(error) bool
}

// NewService creates a new book Service. isTransient reports whether a
// failed mutation transaction may be re-run from the start; nil disables
// retries.
func NewService(
	log *slog.Logger,
	books bookRepo,
	refs referenceResolver,
	outbox outboxWriter,
	dispatcher eventDispatcher,
	tx txManager,
	cfg config.BooksConfig,
	isTransient func(error) bool,
) *Service {
	if isTransient == nil {
		isTransient = func(error) bool { return false }
	}
	return &Service{
		books:      books,
		refs:       refs,
		outbox:     outbox,
		dispatcher: dispatcher,
		tx:         tx,
		log:        log.With("service", "book"),
		cfg:        cfg,
		now:        time.Now,

		isTransient: isTransient,
	}
}

// persist runs fn in a transaction, re-running the whole transaction after a
// transient storage fault. fn must not keep state across attempts other than
// what it assigns on success.
func (s *Service) persist(ctx context.Context, operation string, fn func(txCtx context.Context) error) error {
	res, err := retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, fn)
	},
		retry.WithMaxAttempts(max(s.cfg.TxMaxAttempts, 1)),
		retry.WithBaseDelay(s.cfg.TxBaseDelay),
		retry.WithRetryIf(s.isTransient),
	)
	if res.Attempts > 1 {
		s.log.WarnContext(ctx, "mutation transaction retried",
			slog.String("operation", operation),
			slog.Int("attempts", res.Attempts),
			slog.Bool("succeeded", err == nil),
		)
	}
	return err
}

// appendEvent serializes the event for the committed row and writes it to the
// outbox in the caller's transaction. It returns the outbox id.
func (s *Service) appendEvent(ctx context.Context, eventType domain.EventType, b *domain.Book) (uuid.UUID, error) {
	id := uuid.New()
	at := s.now().UTC()

	payload, err := encodeEvent(domain.NewBookEvent(id, eventType, b, at))
	if err != nil {
		return uuid.Nil, err
	}

	return id, s.outbox.Append(ctx, domain.OutboxMessage{
		ID:          id,
		EventType:   eventType,
		AggregateID: b.ID,
		Payload:     payload,
		Status:      domain.OutboxPending,
		CreatedAt:   at,
	})
}

// dispatch publishes a committed event inline. A failure never reaches the
// caller: the mutation is already durable and the outbox row is either
// dead-lettered by the dispatcher or left PENDING for the forwarder.
func (s *Service) dispatch(ctx context.Context, outboxID, bookID uuid.UUID) {
	if !s.cfg.InlineDispatch {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, outboxID); err != nil {
		s.log.ErrorContext(ctx, "event dispatch failed",
			slog.String("outbox_id", outboxID.String()),
			slog.String("book_id", bookID.String()),
			slog.Bool("dead_lettered", errors.Is(err, domain.ErrPublish)),
			slog.String("error", err.Error()),
		)
	}
}

func observe(operation string, err error) {
	metrics.BookMutations.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
