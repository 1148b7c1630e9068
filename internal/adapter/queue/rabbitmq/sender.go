// Package rabbitmq implements the outbound event channel on a RabbitMQ
// exchange with publisher confirms.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heartmarshall/novelnest-inventory/internal/config"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

// ErrNacked is returned when the broker negatively acknowledges a message.
var ErrNacked = errors.New("rabbitmq: message nacked by broker")

// ErrNotConnected is returned by Ping when no channel is open.
var ErrNotConnected = errors.New("rabbitmq: not connected")

// defaultDialTimeout bounds a dial whose context has no deadline.
const defaultDialTimeout = 10 * time.Second

// Sender publishes serialized events to a durable exchange. The connection
// is opened lazily and re-dialled after the broker closes it, so a broker
// outage surfaces as Send errors rather than a dead process. Dialling is
// bounded by the caller's context and never happens under s.mu.
type Sender struct {
	cfg config.AMQPConfig
	log *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewSender creates a Sender. It does not connect until the first Send.
func NewSender(cfg config.AMQPConfig, log *slog.Logger) *Sender {
	return &Sender{cfg: cfg, log: log.With("adapter", "rabbitmq")}
}

// Send publishes msg and waits for the broker confirm. The outbox id travels
// as the AMQP message id so consumers can drop redeliveries.
func (s *Sender) Send(ctx context.Context, msg domain.OutboxMessage) error {
	if s.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ConfirmTimeout)
		defer cancel()
	}

	ch, err := s.channel(ctx)
	if err != nil {
		return err
	}

	dc, err := ch.PublishWithDeferredConfirmWithContext(ctx,
		s.cfg.Exchange,
		s.cfg.RoutingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID.String(),
			Type:         msg.EventType.String(),
			Timestamp:    time.Now().UTC(),
			Body:         msg.Payload,
		},
	)
	if err != nil {
		s.drop(ch)
		return fmt.Errorf("rabbitmq: publish %s: %w", msg.ID, err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		s.drop(ch)
		return fmt.Errorf("rabbitmq: confirm %s: %w", msg.ID, err)
	}
	if !acked {
		return fmt.Errorf("rabbitmq: confirm %s: %w", msg.ID, ErrNacked)
	}
	return nil
}

// Ping reports whether the sender holds an open channel, dialling if needed.
func (s *Sender) Ping(ctx context.Context) error {
	if _, err := s.channel(ctx); err != nil {
		return errors.Join(ErrNotConnected, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.ch != nil {
		errs = append(errs, s.ch.Close())
	}
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
	}
	s.ch, s.conn = nil, nil
	return errors.Join(errs...)
}

// channel returns the open confirm channel, dialling and declaring the
// exchange when there is none. Concurrent callers may dial at the same time;
// the first to finish wins and the others close their connection.
func (s *Sender) channel(ctx context.Context) (*amqp.Channel, error) {
	s.mu.Lock()
	if s.healthy() {
		ch := s.ch
		s.mu.Unlock()
		return ch, nil
	}
	s.mu.Unlock()

	conn, ch, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.healthy() {
		_ = conn.Close()
		return s.ch, nil
	}
	s.reset()
	s.conn, s.ch = conn, ch
	s.log.Info("connected", slog.String("exchange", s.cfg.Exchange))
	return ch, nil
}

func (s *Sender) open(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	var stop func() bool
	conn, err := amqp.DialConfig(s.cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			nc, err := dialWithin(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// Cancelling ctx aborts a handshake that is waiting on the broker.
			stop = context.AfterFunc(ctx, func() { _ = nc.SetDeadline(time.Now()) })
			return nc, nil
		},
	})
	if stop != nil && !stop() && err == nil {
		// ctx ended after the handshake; the deadline it set would break the connection.
		_ = conn.Close()
		err = ctx.Err()
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(ctxErr, err)
		}
		return nil, nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(s.cfg.Exchange, s.cfg.ExchangeType, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: declare exchange %s: %w", s.cfg.Exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: enable confirms: %w", err)
	}

	returns := ch.NotifyReturn(make(chan amqp.Return, 1))
	go s.logReturns(returns)

	return conn, ch, nil
}

// dialWithin connects within ctx and bounds the AMQP handshake by the same
// deadline. The client clears the deadline once the connection is open.
func dialWithin(ctx context.Context, network, addr string) (net.Conn, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultDialTimeout)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// logReturns drains unroutable messages. They are still confirmed by the
// broker, so the only trace is this warning.
func (s *Sender) logReturns(returns <-chan amqp.Return) {
	for r := range returns {
		s.log.Warn("message returned unroutable",
			slog.String("message_id", r.MessageId),
			slog.String("routing_key", r.RoutingKey),
			slog.String("reply", r.ReplyText),
		)
	}
}

// drop discards ch after a failed publish unless another caller already
// replaced it.
func (s *Sender) drop(ch *amqp.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == ch {
		s.reset()
	}
}

// healthy and reset require s.mu.
func (s *Sender) healthy() bool {
	return s.ch != nil && !s.ch.IsClosed() && s.conn != nil && !s.conn.IsClosed()
}

func (s *Sender) reset() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn, s.ch = nil, nil
}
