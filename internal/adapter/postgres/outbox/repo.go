// Package outbox implements the transactional outbox and its dead-letter
// table using PostgreSQL. Rows are appended inside the mutation transaction
// and later leased by a dispatcher through claimed_until, so no transaction
// stays open while an event is being published.
package outbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	outboxColumns     = []string{"id", "event_type", "aggregate_id", "payload", "status", "attempts", "last_error", "created_at", "sent_at"}
	deadLetterColumns = []string{"id", "outbox_id", "event_type", "aggregate_id", "attempts", "last_error", "created_at", "resolved_at"}
)

// Repo provides outbox and dead-letter persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new outbox repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Outbox
// ---------------------------------------------------------------------------

// Append inserts a PENDING outbox row. Call it inside the transaction that
// performs the mutation the message describes.
func (r *Repo) Append(ctx context.Context, msg domain.OutboxMessage) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO outbox (id, event_type, aggregate_id, payload, status, created_at)
		 VALUES ($1, $2, $3, $4, 'PENDING', $5)`,
		msg.ID, string(msg.EventType), msg.AggregateID, msg.Payload, msg.CreatedAt,
	)
	return postgres.MapError(err, "outbox", msg.ID)
}

// Claim leases a PENDING row until until. The lease is taken by a single
// UPDATE and no lock outlives it, so publishing happens outside any
// transaction. Returns domain.ErrNotFound when the row is missing, already
// handled, or leased by another dispatcher whose lease is still valid at now.
func (r *Repo) Claim(ctx context.Context, id uuid.UUID, now, until time.Time) (*domain.OutboxMessage, error) {
	query, args, err := psql.Update("outbox").
		Set("claimed_until", until).
		Where(sq.Eq{"id": id, "status": string(domain.OutboxPending)}).
		Where(leaseExpired(now)).
		Suffix("RETURNING " + strings.Join(outboxColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outbox claim: %w", err)
	}

	msg, err := scanMessage(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "outbox", id)
	}
	return msg, nil
}

// Release drops the lease on a row that is still PENDING so the forwarder
// can pick it up without waiting for the lease to run out.
func (r *Repo) Release(ctx context.Context, id uuid.UUID) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE outbox SET claimed_until = NULL WHERE id = $1 AND status = 'PENDING'`, id)
	return postgres.MapError(err, "outbox", id)
}

// PendingIDs returns up to limit ids of unleased PENDING rows created at or
// before olderThan, oldest first. The ids are candidates only; each one is
// leased with Claim before it is published.
func (r *Repo) PendingIDs(ctx context.Context, olderThan, now time.Time, limit int) ([]uuid.UUID, error) {
	query, args, err := psql.Select("id").
		From("outbox").
		Where(sq.Eq{"status": string(domain.OutboxPending)}).
		Where(sq.LtOrEq{"created_at": olderThan}).
		Where(leaseExpired(now)).
		OrderBy("created_at").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outbox pending: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "outbox", "pending")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, postgres.MapError(err, "outbox", "pending")
	}
	return ids, nil
}

func leaseExpired(now time.Time) sq.Sqlizer {
	return sq.Or{sq.Eq{"claimed_until": nil}, sq.LtOrEq{"claimed_until": now}}
}

// MarkSent records a successful delivery.
func (r *Repo) MarkSent(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error {
	return r.setStatus(ctx, id, sq.Eq{
		"status":        string(domain.OutboxSent),
		"attempts":      sq.Expr("attempts + ?", attempts),
		"last_error":    nil,
		"sent_at":       at,
		"claimed_until": nil,
	})
}

// MarkDead records an exhausted delivery.
func (r *Repo) MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return r.setStatus(ctx, id, sq.Eq{
		"status":        string(domain.OutboxDead),
		"attempts":      sq.Expr("attempts + ?", attempts),
		"last_error":    lastErr,
		"claimed_until": nil,
	})
}

// Requeue moves a DEAD row back to PENDING.
func (r *Repo) Requeue(ctx context.Context, id uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE outbox SET status = 'PENDING', claimed_until = NULL WHERE id = $1 AND status = 'DEAD'`, id)
	if err != nil {
		return postgres.MapError(err, "outbox", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outbox %s not dead: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) setStatus(ctx context.Context, id uuid.UUID, set sq.Eq) error {
	query, args, err := psql.Update("outbox").
		SetMap(set).
		Where(sq.Eq{"id": id, "status": string(domain.OutboxPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outbox update: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "outbox", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outbox %s not pending: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Dead letters
// ---------------------------------------------------------------------------

// InsertDeadLetter stores a reconciliation record.
func (r *Repo) InsertDeadLetter(ctx context.Context, dl domain.DeadLetter) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO dead_letters (id, outbox_id, event_type, aggregate_id, attempts, last_error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		dl.ID, dl.OutboxID, string(dl.EventType), dl.AggregateID, dl.Attempts, dl.LastError, dl.CreatedAt,
	)
	return postgres.MapError(err, "dead_letter", dl.ID)
}

// ListDeadLetters returns up to limit dead letters, oldest first.
// Returns an empty slice (not nil) when there are none.
func (r *Repo) ListDeadLetters(ctx context.Context, unresolvedOnly bool, limit int) ([]domain.DeadLetter, error) {
	sb := psql.Select(deadLetterColumns...).From("dead_letters").OrderBy("created_at")
	if unresolvedOnly {
		sb = sb.Where(sq.Eq{"resolved_at": nil})
	}
	if limit > 0 {
		sb = sb.Limit(uint64(limit))
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build dead letter list: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "dead_letter", "list")
	}
	defer rows.Close()

	out := []domain.DeadLetter{}
	for rows.Next() {
		dl, err := scanDeadLetter(rows)
		if err != nil {
			return nil, postgres.MapError(err, "dead_letter", "list")
		}
		out = append(out, *dl)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "dead_letter", "list")
	}
	return out, nil
}

// GetDeadLetterForUpdate loads and locks a dead letter.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetDeadLetterForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeadLetter, error) {
	query, args, err := psql.Select(deadLetterColumns...).
		From("dead_letters").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build dead letter get: %w", err)
	}

	dl, err := scanDeadLetter(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "dead_letter", id)
	}
	return dl, nil
}

// ResolveDeadLetter stamps resolved_at on an unresolved dead letter.
func (r *Repo) ResolveDeadLetter(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE dead_letters SET resolved_at = $2 WHERE id = $1 AND resolved_at IS NULL`, id, at)
	if err != nil {
		return postgres.MapError(err, "dead_letter", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dead_letter %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanMessage(row pgx.Row) (*domain.OutboxMessage, error) {
	var (
		m         domain.OutboxMessage
		eventType string
		status    string
	)
	if err := row.Scan(&m.ID, &eventType, &m.AggregateID, &m.Payload, &status, &m.Attempts, &m.LastError, &m.CreatedAt, &m.SentAt); err != nil {
		return nil, err
	}
	m.EventType = domain.EventType(eventType)
	m.Status = domain.OutboxStatus(status)
	return &m, nil
}

func scanDeadLetter(row pgx.Row) (*domain.DeadLetter, error) {
	var (
		dl        domain.DeadLetter
		eventType string
	)
	if err := row.Scan(&dl.ID, &dl.OutboxID, &eventType, &dl.AggregateID, &dl.Attempts, &dl.LastError, &dl.CreatedAt, &dl.ResolvedAt); err != nil {
		return nil, err
	}
	dl.EventType = domain.EventType(eventType)
	return &dl, nil
}
