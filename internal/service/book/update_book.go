package book

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/pkg/ctxutil"
)

// UpdateBook applies a partial update to a book owned by the caller and emits
// BOOK_UPDATED for the stored row. A non-owner gets ErrForbidden and no event.
func (s *Service) UpdateBook(ctx context.Context, input UpdateBookInput) (b *domain.Book, err error) {
	defer func() { observe("update", err) }()

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxTitleLength); err != nil {
		return nil, err
	}

	var params domain.BookUpdateParams
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		params.Title = &title
	}
	if input.Author != nil {
		author, err := s.refs.Resolve(ctx, domain.ReferenceAuthor, *input.Author)
		if err != nil {
			return nil, fmt.Errorf("resolve author: %w", err)
		}
		params.AuthorID = &author.ID
	}
	if input.Genre != nil {
		genre, err := s.refs.Resolve(ctx, domain.ReferenceGenre, *input.Genre)
		if err != nil {
			return nil, fmt.Errorf("resolve genre: %w", err)
		}
		params.GenreID = &genre.ID
	}

	persistCtx := ctxutil.Detach(ctx)

	var (
		updated  *domain.Book
		outboxID uuid.UUID
	)
	err = s.persist(persistCtx, "update", func(txCtx context.Context) error {
		current, txErr := s.books.GetForUpdate(txCtx, input.BookID)
		if txErr != nil {
			return fmt.Errorf("get book: %w", txErr)
		}
		if !current.OwnedBy(userID) {
			return domain.ErrForbidden
		}

		updated, txErr = s.books.Update(txCtx, input.BookID, params)
		if txErr != nil {
			return fmt.Errorf("update book: %w", txErr)
		}

		outboxID, txErr = s.appendEvent(txCtx, domain.EventBookUpdated, updated)
		if txErr != nil {
			return fmt.Errorf("append event: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "book updated",
		slog.String("user_id", userID.String()),
		slog.String("book_id", updated.ID.String()),
	)

	s.dispatch(persistCtx, outboxID, updated.ID)

	return updated, nil
}
