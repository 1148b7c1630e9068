package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres"
	outboxrepo "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/outbox"
	"github.com/heartmarshall/novelnest-inventory/internal/adapter/queue/rabbitmq"
	"github.com/heartmarshall/novelnest-inventory/internal/config"
	"github.com/heartmarshall/novelnest-inventory/internal/service/outbox"
)

// infra holds the long-lived connections shared by every entry point. The
// pool and the broker connection are built once and injected everywhere.
type infra struct {
	cfg    *config.Config
	log    *slog.Logger
	pool   *pgxpool.Pool
	sender *rabbitmq.Sender
	tx     *postgres.TxManager
}

// bootstrap loads configuration, sets up logging and opens the database
// pool. The broker connection is dialled lazily on first publish.
func bootstrap(ctx context.Context, component string) (*infra, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log).With("component", component)
	logger.InfoContext(ctx, "starting",
		buildAttrs(),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &infra{
		cfg:    cfg,
		log:    logger,
		pool:   pool,
		sender: rabbitmq.NewSender(cfg.AMQP, logger),
		tx:     postgres.NewTxManager(pool),
	}, nil
}

func (i *infra) close() {
	if err := i.sender.Close(); err != nil {
		i.log.Warn("close broker connection", slog.String("error", err.Error()))
	}
	i.pool.Close()
}

// outboxService builds the dispatcher used inline by the server, by the
// forwarder loop and by reconciliation.
func (i *infra) outboxService() *outbox.Service {
	publisher := outbox.NewPublisher(i.log, i.sender, i.cfg.Publisher)
	return outbox.NewService(i.log, outboxrepo.New(i.pool), publisher, i.tx, i.cfg.Outbox)
}
