// Package book implements the Book Store using PostgreSQL.
// Every read joins the author and genre rows so callers always see the
// resolved names alongside the ids.
package book

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

const entity = "book"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Raw SQL for the joined projection. The mutation statements return the
// book columns from a CTE and are wrapped with joinedFrom.
const bookColumns = `id, user_id, title, author_id, genre_id, created_at, updated_at`

const joinedSelect = `
SELECT
    b.id, b.user_id, b.title, b.created_at, b.updated_at,
    a.id, a.name,
    g.id, g.name
FROM %s b
JOIN authors a ON a.id = b.author_id
JOIN genres g ON g.id = b.genre_id`

const createSQL = `
WITH b AS (
    INSERT INTO books (id, user_id, title, author_id, genre_id, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, now(), now())
    RETURNING ` + bookColumns + `
)`

const deleteSQL = `
WITH b AS (
    DELETE FROM books WHERE id = $1
    RETURNING ` + bookColumns + `
)`

func joinedFrom(source string) string {
	return fmt.Sprintf(joinedSelect, source)
}

// Repo provides book persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new book repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a book with its author and genre.
// Returns domain.ErrNotFound if the book does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, joinedFrom("books")+` WHERE b.id = $1`, id)

	b, err := scanBook(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return b, nil
}

// GetForUpdate loads the book and locks its row until the surrounding
// transaction ends. Must be called inside TxManager.RunInTx.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, joinedFrom("books")+` WHERE b.id = $1 FOR UPDATE OF b`, id)

	b, err := scanBook(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return b, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a book owned by userID. The id is generated here and the
// timestamps come from the database clock.
// Returns domain.ErrNotFound if the author or genre does not exist.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, title string, authorID, genreID uuid.UUID) (*domain.Book, error) {
	id := uuid.New()

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		createSQL+joinedFrom("b"),
		id, userID, title, authorID, genreID,
	)

	b, err := scanBook(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return b, nil
}

// Update applies the non-nil fields of params and bumps updated_at so it is
// strictly greater than its previous value even when the clock has not moved.
// Returns domain.ErrNotFound if the book (or a new author/genre) does not exist.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.BookUpdateParams) (*domain.Book, error) {
	ub := psql.Update("books").
		Set("updated_at", sq.Expr("greatest(now(), updated_at + interval '1 microsecond')")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + bookColumns)

	if params.Title != nil {
		ub = ub.Set("title", *params.Title)
	}
	if params.AuthorID != nil {
		ub = ub.Set("author_id", *params.AuthorID)
	}
	if params.GenreID != nil {
		ub = ub.Set("genre_id", *params.GenreID)
	}

	updateSQL, args, err := ub.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build book update: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		"WITH b AS ("+updateSQL+")"+joinedFrom("b"),
		args...,
	)

	b, err := scanBook(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return b, nil
}

// Delete removes the book and returns its last persisted state.
// Author and genre rows are left in place.
// Returns domain.ErrNotFound if the book does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, deleteSQL+joinedFrom("b"), id)

	b, err := scanBook(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return b, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanBook(row pgx.Row) (*domain.Book, error) {
	var b domain.Book
	err := row.Scan(
		&b.ID, &b.UserID, &b.Title, &b.CreatedAt, &b.UpdatedAt,
		&b.Author.ID, &b.Author.Name,
		&b.Genre.ID, &b.Genre.Name,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}
