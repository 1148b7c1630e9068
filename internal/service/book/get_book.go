package book

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/pkg/ctxutil"
)

// GetBook returns a book with its author and genre. Any authenticated caller
// may read any book.
func (s *Service) GetBook(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if bookID == uuid.Nil {
		return nil, domain.NewValidationError("book_id", "required")
	}
	return s.books.GetByID(ctx, bookID)
}
