package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

const (
	msgNotFound     = "Book not found"
	msgUnauthorized = "Authentication required"
	msgInternal     = "internal server error"
)

// errorMapper turns service errors into HTTP responses. Ownership
// mismatches become 404 when hideForbidden is set.
type errorMapper struct {
	log           *slog.Logger
	hideForbidden bool
}

func (m errorMapper) write(w http.ResponseWriter, r *http.Request, err error, forbiddenMsg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrForbidden):
		if m.hideForbidden {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusForbidden, forbiddenMsg)
	default:
		m.log.ErrorContext(r.Context(), "internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
