// Package reference resolves author and genre names to their canonical rows,
// creating them on first use.
package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/heartmarshall/novelnest-inventory/internal/config"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/internal/metrics"
	"github.com/heartmarshall/novelnest-inventory/pkg/retry"
)

type referenceRepo interface {
	GetOrCreate(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error)
}

// Service is the Reference Normalizer.
type Service struct {
	refs          referenceRepo
	log           *slog.Logger
	maxAttempts   int
	retryOpts     []retry.Option
	maxNameLength int
	inTx          func(context.Context) bool
}

// NewService creates a new reference Service. inTx reports whether a context
// carries an open database transaction; resolves inside one are not retried
// because the first failed statement aborts the transaction. A nil inTx
// means every call may retry. isTransient selects the storage faults worth
// another attempt; nil retries only a lost insert race.
func NewService(
	log *slog.Logger,
	refs referenceRepo,
	cfg config.ReferenceConfig,
	maxNameLength int,
	inTx func(context.Context) bool,
	isTransient func(error) bool,
) *Service {
	if inTx == nil {
		inTx = func(context.Context) bool { return false }
	}
	if isTransient == nil {
		isTransient = func(error) bool { return false }
	}
	return &Service{
		refs:        refs,
		log:         log.With("service", "reference"),
		maxAttempts: cfg.MaxAttempts,
		retryOpts: []retry.Option{
			retry.WithBaseDelay(cfg.BaseDelay),
			retry.WithRetryIf(func(err error) bool {
				return errors.Is(err, domain.ErrAlreadyExists) || isTransient(err)
			}),
		},
		maxNameLength: maxNameLength,
		inTx:          inTx,
	}
}

// Resolve returns the row for name, creating it if no row with that exact
// normalized name exists. Concurrent callers converge on one row.
//
// Returns a *domain.ValidationError for a blank or oversized name and an
// error wrapping domain.ErrStorage once the retry budget is spent.
func (s *Service) Resolve(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error) {
	field := fieldName(kind)
	if !kind.IsValid() {
		return domain.Reference{}, domain.NewValidationError("kind", "unknown reference kind")
	}

	normalized := domain.NormalizeName(name)
	if normalized == "" {
		return domain.Reference{}, domain.NewValidationError(field, "required")
	}
	if s.maxNameLength > 0 && utf8.RuneCountInString(normalized) > s.maxNameLength {
		return domain.Reference{}, domain.NewValidationError(field, fmt.Sprintf("max %d characters", s.maxNameLength))
	}

	attempts := s.maxAttempts
	if s.inTx(ctx) {
		attempts = 1
	}

	var ref domain.Reference
	res, err := retry.Do(ctx, func(ctx context.Context) error {
		var getErr error
		ref, getErr = s.refs.GetOrCreate(ctx, kind, normalized)
		return getErr
	}, append(s.retryOpts, retry.WithMaxAttempts(max(attempts, 1)))...)

	if res.Attempts > 1 {
		metrics.ReferenceRetries.WithLabelValues(kind.String()).Add(float64(res.Attempts - 1))
	}
	if err != nil {
		s.log.WarnContext(ctx, "reference resolve failed",
			slog.String("kind", kind.String()),
			slog.Int("attempts", res.Attempts),
			slog.String("error", err.Error()),
		)
		return domain.Reference{}, fmt.Errorf("resolve %s: %w", field, err)
	}

	return ref, nil
}

func fieldName(kind domain.ReferenceKind) string {
	switch kind {
	case domain.ReferenceAuthor:
		return "author"
	case domain.ReferenceGenre:
		return "genre"
	default:
		return "reference"
	}
}
