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

// CreateBook creates a book owned by the authenticated caller and emits
// BOOK_CREATED for the stored row.
func (s *Service) CreateBook(ctx context.Context, input CreateBookInput) (b *domain.Book, err error) {
	defer func() { observe("create", err) }()

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxTitleLength); err != nil {
		return nil, err
	}

	author, err := s.refs.Resolve(ctx, domain.ReferenceAuthor, input.Author)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}
	genre, err := s.refs.Resolve(ctx, domain.ReferenceGenre, input.Genre)
	if err != nil {
		return nil, fmt.Errorf("resolve genre: %w", err)
	}

	persistCtx := ctxutil.Detach(ctx)

	var (
		created  *domain.Book
		outboxID uuid.UUID
	)
	err = s.persist(persistCtx, "create", func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.books.Create(txCtx, userID, strings.TrimSpace(input.Title), author.ID, genre.ID)
		if txErr != nil {
			return fmt.Errorf("create book: %w", txErr)
		}

		outboxID, txErr = s.appendEvent(txCtx, domain.EventBookCreated, created)
		if txErr != nil {
			return fmt.Errorf("append event: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "book created",
		slog.String("user_id", userID.String()),
		slog.String("book_id", created.ID.String()),
	)

	s.dispatch(persistCtx, outboxID, created.ID)

	return created, nil
}
