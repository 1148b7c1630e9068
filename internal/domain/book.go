package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceKind identifies a shared reference table a book points to.
type ReferenceKind string

const (
	ReferenceAuthor ReferenceKind = "AUTHOR"
	ReferenceGenre  ReferenceKind = "GENRE"
)

func (k ReferenceKind) String() string { return string(k) }

func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceAuthor, ReferenceGenre:
		return true
	}
	return false
}

// Reference is a normalized author or genre row. Rows are created once per
// distinct name and are never updated or deleted.
type Reference struct {
	ID   uuid.UUID
	Name string
}

// Book is a catalog entry owned by exactly one user.
type Book struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Author    Reference
	Genre     Reference
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether userID is the persisted owner of the book.
func (b *Book) OwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}

// BookUpdateParams holds the fields to change. Nil means keep the stored value.
type BookUpdateParams struct {
	Title    *string
	AuthorID *uuid.UUID
	GenreID  *uuid.UUID
}
