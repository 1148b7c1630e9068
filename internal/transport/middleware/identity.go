package middleware

import (
	"context"

	"github.com/google/uuid"
)

type identityHolderKey struct{}

// identityHolder lets Auth report the verified caller back to Logger, which
// only sees the outer request.
type identityHolder struct {
	userID uuid.UUID
}

func withIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, identityHolderKey{}, h)
}

func recordIdentity(ctx context.Context, userID uuid.UUID) {
	if h, ok := ctx.Value(identityHolderKey{}).(*identityHolder); ok {
		h.userID = userID
	}
}
