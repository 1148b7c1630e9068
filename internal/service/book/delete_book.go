package book

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/pkg/ctxutil"
)

// DeleteBook removes a book owned by the caller and emits BOOK_DELETED built
// from the pre-delete snapshot.
func (s *Service) DeleteBook(ctx context.Context, input DeleteBookInput) (b *domain.Book, err error) {
	defer func() { observe("delete", err) }()

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	persistCtx := ctxutil.Detach(ctx)

	var (
		deleted  *domain.Book
		outboxID uuid.UUID
	)
	err = s.persist(persistCtx, "delete", func(txCtx context.Context) error {
		current, txErr := s.books.GetForUpdate(txCtx, input.BookID)
		if txErr != nil {
			return fmt.Errorf("get book: %w", txErr)
		}
		if !current.OwnedBy(userID) {
			return domain.ErrForbidden
		}

		deleted, txErr = s.books.Delete(txCtx, input.BookID)
		if txErr != nil {
			return fmt.Errorf("delete book: %w", txErr)
		}

		outboxID, txErr = s.appendEvent(txCtx, domain.EventBookDeleted, deleted)
		if txErr != nil {
			return fmt.Errorf("append event: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "book deleted",
		slog.String("user_id", userID.String()),
		slog.String("book_id", deleted.ID.String()),
	)

	s.dispatch(persistCtx, outboxID, deleted.ID)

	return deleted, nil
}
