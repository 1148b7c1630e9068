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
	"github.com/heartmarshall/novelnest-inventory/pkg/retry"
)

type sender interface {
	Send(ctx context.Context, msg domain.OutboxMessage) error
}

// PublishError reports a message whose delivery attempts were exhausted.
// It matches domain.ErrPublish and the last transport error.
type PublishError struct {
	MessageID uuid.UUID
	Attempts  int
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s after %d attempts: %v", e.MessageID, e.Attempts, e.Err)
}

func (e *PublishError) Unwrap() []error {
	return []error{domain.ErrPublish, e.Err}
}

// Publisher is the Event Publisher. It hands the stored payload bytes to the
// outbound channel unmodified and retries transient send failures.
type Publisher struct {
	sender      sender
	log         *slog.Logger
	sendTimeout time.Duration
	opts        []retry.Option
}

// NewPublisher creates a Publisher from PublisherConfig.
func NewPublisher(log *slog.Logger, s sender, cfg config.PublisherConfig) *Publisher {
	return &Publisher{
		sender:      s,
		log:         log.With("service", "publisher"),
		sendTimeout: cfg.SendTimeout,
		opts: []retry.Option{
			retry.WithMaxAttempts(max(cfg.MaxAttempts, 1)),
			retry.WithBaseDelay(cfg.BaseDelay),
			retry.WithMaxDelay(cfg.MaxDelay),
			retry.WithJitterFactor(cfg.JitterFactor),
		},
	}
}

// Publish delivers msg and returns the number of send attempts made.
//
// Context cancellation is returned as is. Any other failure that survives
// the retry budget comes back as a *PublishError.
func (p *Publisher) Publish(ctx context.Context, msg domain.OutboxMessage) (int, error) {
	start := time.Now()

	res, err := retry.Do(ctx, func(ctx context.Context) error {
		sendCtx, cancel := p.attemptContext(ctx)
		defer cancel()

		sendErr := p.sender.Send(sendCtx, msg)
		if sendErr != nil && ctx.Err() == nil && sendCtx.Err() != nil {
			// The per-attempt timeout fired; that is a transport failure, not
			// a cancellation of the whole publish.
			return fmt.Errorf("send timed out after %s: %w", p.sendTimeout, errAttemptTimeout)
		}
		if sendErr != nil {
			p.log.DebugContext(ctx, "send attempt failed",
				slog.String("outbox_id", msg.ID.String()),
				slog.String("error", sendErr.Error()),
			)
		}
		return sendErr
	}, p.opts...)

	metrics.PublishAttempts.Observe(float64(res.Attempts))
	metrics.PublishDuration.Observe(float64(time.Since(start).Milliseconds()))

	if err == nil {
		metrics.EventsPublished.WithLabelValues(msg.EventType.String()).Inc()
		return res.Attempts, nil
	}
	if ctx.Err() != nil {
		return res.Attempts, ctx.Err()
	}
	return res.Attempts, &PublishError{MessageID: msg.ID, Attempts: res.Attempts, Err: err}
}

func (p *Publisher) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.sendTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.sendTimeout)
}

// errAttemptTimeout replaces context.DeadlineExceeded from a single attempt
// so the retry loop keeps going.
var errAttemptTimeout = errors.New("send attempt timed out")
