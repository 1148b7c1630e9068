// Package reference implements the author and genre repositories using
// PostgreSQL. Both tables share one shape and are insert-only.
package reference

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

type statements struct {
	entity string
	upsert string
	byName string
}

var kinds = map[domain.ReferenceKind]statements{
	domain.ReferenceAuthor: {
		entity: "author",
		upsert: `INSERT INTO authors (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		byName: `SELECT id, name FROM authors WHERE name = $1`,
	},
	domain.ReferenceGenre: {
		entity: "genre",
		upsert: `INSERT INTO genres (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		byName: `SELECT id, name FROM genres WHERE name = $1`,
	},
}

// Repo provides author/genre persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reference repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetOrCreate performs an upsert: INSERT ON CONFLICT DO NOTHING, then SELECT.
// name must already be normalized. Concurrent callers with the same name all
// succeed and return the same row.
func (r *Repo) GetOrCreate(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error) {
	st, err := statementsFor(kind)
	if err != nil {
		return domain.Reference{}, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, st.upsert, uuid.New(), name); err != nil {
		return domain.Reference{}, postgres.MapError(err, st.entity, name)
	}

	var ref domain.Reference
	if err := q.QueryRow(ctx, st.byName, name).Scan(&ref.ID, &ref.Name); err != nil {
		return domain.Reference{}, postgres.MapError(err, st.entity, name)
	}

	return ref, nil
}

func statementsFor(kind domain.ReferenceKind) (statements, error) {
	st, ok := kinds[kind]
	if !ok {
		return statements{}, fmt.Errorf("reference kind %q: %w", kind, domain.ErrValidation)
	}
	return st, nil
}
