package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

// ReconcileOptions selects what the reconcile tool does.
type ReconcileOptions struct {
	// RequeueID, when set, moves that dead letter's event back to PENDING.
	RequeueID string
	// All includes resolved dead letters in the listing.
	All   bool
	Limit int
}

type deadLetterManager interface {
	ListDeadLetters(ctx context.Context, unresolvedOnly bool, limit int) ([]domain.DeadLetter, error)
	Requeue(ctx context.Context, deadLetterID uuid.UUID) (*domain.DeadLetter, error)
}

// Reconcile lists dead-lettered events or requeues one of them, writing a
// report to out.
func Reconcile(ctx context.Context, out io.Writer, opts ReconcileOptions) error {
	inf, err := bootstrap(ctx, "reconcile")
	if err != nil {
		return err
	}
	defer inf.close()

	return reconcile(ctx, inf.outboxService(), inf.log, out, opts)
}

func reconcile(ctx context.Context, mgr deadLetterManager, log *slog.Logger, out io.Writer, opts ReconcileOptions) error {
	if opts.RequeueID != "" {
		id, err := uuid.Parse(opts.RequeueID)
		if err != nil {
			return fmt.Errorf("invalid dead letter id %q: %w", opts.RequeueID, err)
		}

		dl, err := mgr.Requeue(ctx, id)
		if err != nil {
			return fmt.Errorf("requeue %s: %w", id, err)
		}

		log.InfoContext(ctx, "dead letter requeued",
			slog.String("dead_letter_id", dl.ID.String()),
			slog.String("outbox_id", dl.OutboxID.String()),
		)
		_, err = fmt.Fprintf(out, "requeued %s: event %s (%s) for book %s is pending again\n",
			dl.ID, dl.OutboxID, dl.EventType, dl.AggregateID)
		return err
	}

	letters, err := mgr.ListDeadLetters(ctx, !opts.All, opts.Limit)
	if err != nil {
		return fmt.Errorf("list dead letters: %w", err)
	}
	if len(letters) == 0 {
		_, err = fmt.Fprintln(out, "no dead letters")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEVENT\tTYPE\tBOOK\tATTEMPTS\tCREATED\tRESOLVED\tLAST ERROR")
	for _, dl := range letters {
		resolved := "-"
		if dl.ResolvedAt != nil {
			resolved = dl.ResolvedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			dl.ID, dl.OutboxID, dl.EventType, dl.AggregateID, dl.Attempts,
			dl.CreatedAt.UTC().Format(time.RFC3339), resolved, dl.LastError)
	}
	return tw.Flush()
}
