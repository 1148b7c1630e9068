package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

// uniqueSuffix returns a short unique string for non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAuthor inserts an author with a unique name.
func SeedAuthor(t *testing.T, pool *pgxpool.Pool) domain.Reference {
	t.Helper()
	return seedReference(t, pool, "authors", "Author "+uniqueSuffix())
}

// SeedGenre inserts a genre with a unique name.
func SeedGenre(t *testing.T, pool *pgxpool.Pool) domain.Reference {
	t.Helper()
	return seedReference(t, pool, "genres", "Genre "+uniqueSuffix())
}

func seedReference(t *testing.T, pool *pgxpool.Pool, table, name string) domain.Reference {
	t.Helper()

	ref := domain.Reference{ID: uuid.New(), Name: name}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO `+table+` (id, name) VALUES ($1, $2)`,
		ref.ID, ref.Name,
	)
	if err != nil {
		t.Fatalf("testhelper: seed %s: %v", table, err)
	}
	return ref
}

// SeedBook inserts a book for userID with a fresh author and genre.
func SeedBook(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Book {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	book := domain.Book{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Title " + uniqueSuffix(),
		Author:    SeedAuthor(t, pool),
		Genre:     SeedGenre(t, pool),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO books (id, user_id, title, author_id, genre_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		book.ID, book.UserID, book.Title, book.Author.ID, book.Genre.ID, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBook: %v", err)
	}
	return book
}

// SeedOutbox inserts an outbox row in the given status, created at createdAt.
func SeedOutbox(t *testing.T, pool *pgxpool.Pool, status domain.OutboxStatus, createdAt time.Time) domain.OutboxMessage {
	t.Helper()

	msg := domain.OutboxMessage{
		ID:          uuid.New(),
		EventType:   domain.EventBookCreated,
		AggregateID: uuid.New(),
		Payload:     []byte(`{"eventType":"BOOK_CREATED"}`),
		Status:      status,
		CreatedAt:   createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO outbox (id, event_type, aggregate_id, payload, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, string(msg.EventType), msg.AggregateID, msg.Payload, string(msg.Status), msg.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedOutbox: %v", err)
	}
	return msg
}

// CountRows returns the number of rows in table matching where (may be empty).
func CountRows(t *testing.T, pool *pgxpool.Pool, table, where string, args ...any) int {
	t.Helper()

	query := `SELECT count(*) FROM ` + table
	if where != "" {
		query += ` WHERE ` + where
	}

	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("testhelper: count %s: %v", table, err)
	}
	return n
}
