package outbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

// ListDeadLetters returns dead letters oldest first. limit <= 0 means all.
func (s *Service) ListDeadLetters(ctx context.Context, unresolvedOnly bool, limit int) ([]domain.DeadLetter, error) {
	list, err := s.repo.ListDeadLetters(ctx, unresolvedOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	return list, nil
}

// Requeue moves the dead letter's outbox row back to PENDING and marks the
// dead letter resolved. The forwarder picks the row up on its next pass.
// Returns a *domain.ValidationError if the dead letter is already resolved.
func (s *Service) Requeue(ctx context.Context, deadLetterID uuid.UUID) (*domain.DeadLetter, error) {
	var dl *domain.DeadLetter

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var getErr error
		dl, getErr = s.repo.GetDeadLetterForUpdate(txCtx, deadLetterID)
		if getErr != nil {
			return getErr
		}
		if dl.IsResolved() {
			return domain.NewValidationError("dead_letter", "already resolved")
		}

		if err := s.repo.Requeue(txCtx, dl.OutboxID); err != nil {
			return fmt.Errorf("requeue outbox: %w", err)
		}

		now := s.now().UTC()
		if err := s.repo.ResolveDeadLetter(txCtx, dl.ID, now); err != nil {
			return fmt.Errorf("resolve dead letter: %w", err)
		}
		dl.ResolvedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "dead letter requeued",
		slog.String("dead_letter_id", dl.ID.String()),
		slog.String("outbox_id", dl.OutboxID.String()),
	)
	return dl, nil
}
