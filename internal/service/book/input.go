package book

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

// CreateBookInput holds the parameters for creating a book. The owner is
// always the authenticated caller.
type CreateBookInput struct {
	Title  string
	Author string
	Genre  string
}

// Validate checks all fields and collects all errors.
func (i CreateBookInput) Validate(maxTitle int) error {
	var errs []domain.FieldError

	errs = appendTitleErrors(errs, i.Title, maxTitle)
	if strings.TrimSpace(i.Author) == "" {
		errs = append(errs, domain.FieldError{Field: "author", Message: "required"})
	}
	if strings.TrimSpace(i.Genre) == "" {
		errs = append(errs, domain.FieldError{Field: "genre", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateBookInput holds a partial update. Nil fields keep their stored value.
type UpdateBookInput struct {
	BookID uuid.UUID
	Title  *string
	Author *string
	Genre  *string
}

// Validate checks all fields and collects all errors.
func (i UpdateBookInput) Validate(maxTitle int) error {
	var errs []domain.FieldError

	if i.BookID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "book_id", Message: "required"})
	}
	if i.Title != nil {
		errs = appendTitleErrors(errs, *i.Title, maxTitle)
	}
	if i.Author != nil && strings.TrimSpace(*i.Author) == "" {
		errs = append(errs, domain.FieldError{Field: "author", Message: "must not be blank"})
	}
	if i.Genre != nil && strings.TrimSpace(*i.Genre) == "" {
		errs = append(errs, domain.FieldError{Field: "genre", Message: "must not be blank"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DeleteBookInput holds the parameters for deleting a book.
type DeleteBookInput struct {
	BookID uuid.UUID
}

// Validate checks all fields.
func (i DeleteBookInput) Validate() error {
	if i.BookID == uuid.Nil {
		return domain.NewValidationError("book_id", "required")
	}
	return nil
}

func appendTitleErrors(errs []domain.FieldError, title string, maxTitle int) []domain.FieldError {
	title = strings.TrimSpace(title)
	if title == "" {
		return append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if maxTitle > 0 && utf8.RuneCountInString(title) > maxTitle {
		return append(errs, domain.FieldError{Field: "title", Message: fmt.Sprintf("max %d characters", maxTitle)})
	}
	return errs
}
