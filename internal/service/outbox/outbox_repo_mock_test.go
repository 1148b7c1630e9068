package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var _ outboxRepo = &outboxRepoMock{}

type outboxRepoMock struct {
	ClaimFunc func(ctx context.Context, id uuid.UUID, now time.Time, until time.Time) (*domain.OutboxMessage, error)

	GetDeadLetterForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.DeadLetter, error)

	InsertDeadLetterFunc func(ctx context.Context, dl domain.DeadLetter) error

	ListDeadLettersFunc func(ctx context.Context, unresolvedOnly bool, limit int) ([]domain.DeadLetter, error)

	MarkDeadFunc func(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error

	MarkSentFunc func(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error

	PendingIDsFunc func(ctx context.Context, olderThan time.Time, now time.Time, limit int) ([]uuid.UUID, error)

	ReleaseFunc func(ctx context.Context, id uuid.UUID) error

	RequeueFunc func(ctx context.Context, id uuid.UUID) error

	ResolveDeadLetterFunc func(ctx context.Context, id uuid.UUID, at time.Time) error

	calls struct {
		Claim []struct {
			Ctx   context.Context
			ID    uuid.UUID
			Now   time.Time
			Until time.Time
		}
		GetDeadLetterForUpdate []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		InsertDeadLetter []struct {
			Ctx context.Context
			Dl  domain.DeadLetter
		}
		ListDeadLetters []struct {
			Ctx            context.Context
			UnresolvedOnly bool
			Limit          int
		}
		MarkDead []struct {
			Ctx      context.Context
			ID       uuid.UUID
			Attempts int
			LastErr  string
		}
		MarkSent []struct {
			Ctx      context.Context
			ID       uuid.UUID
			Attempts int
			At       time.Time
		}
		PendingIDs []struct {
			Ctx       context.Context
			OlderThan time.Time
			Now       time.Time
			Limit     int
		}
		Release []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Requeue []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		ResolveDeadLetter []struct {
			Ctx context.Context
			ID  uuid.UUID
			At  time.Time
		}
	}
	lockClaim                  sync.RWMutex
	lockGetDeadLetterForUpdate sync.RWMutex
	lockInsertDeadLetter       sync.RWMutex
	lockListDeadLetters        sync.RWMutex
	lockMarkDead               sync.RWMutex
	lockMarkSent               sync.RWMutex
	lockPendingIDs             sync.RWMutex
	lockRelease                sync.RWMutex
	lockRequeue                sync.RWMutex
	lockResolveDeadLetter      sync.RWMutex
}

func (mock *outboxRepoMock) Claim(ctx context.Context, id uuid.UUID, now time.Time, until time.Time) (*domain.OutboxMessage, error) {
	if mock.ClaimFunc == nil {
		panic("outboxRepoMock.ClaimFunc: method is nil but outboxRepo.Claim was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		ID    uuid.UUID
		Now   time.Time
		Until time.Time
	}{
		Ctx:   ctx,
		ID:    id,
		Now:   now,
		Until: until,
	}
	mock.lockClaim.Lock()
	mock.calls.Claim = append(mock.calls.Claim, callInfo)
	mock.lockClaim.Unlock()
	return mock.ClaimFunc(ctx, id, now, until)
}

func (mock *outboxRepoMock) ClaimCalls() []struct {
	Ctx   context.Context
	ID    uuid.UUID
	Now   time.Time
	Until time.Time
} {
	var calls []struct {
		Ctx   context.Context
		ID    uuid.UUID
		Now   time.Time
		Until time.Time
	}
	mock.lockClaim.RLock()
	calls = mock.calls.Claim
	mock.lockClaim.RUnlock()
	return calls
}

func (mock *outboxRepoMock) GetDeadLetterForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeadLetter, error) {
	if mock.GetDeadLetterForUpdateFunc == nil {
		panic("outboxRepoMock.GetDeadLetterForUpdateFunc: method is nil but outboxRepo.GetDeadLetterForUpdate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockGetDeadLetterForUpdate.Lock()
	mock.calls.GetDeadLetterForUpdate = append(mock.calls.GetDeadLetterForUpdate, callInfo)
	mock.lockGetDeadLetterForUpdate.Unlock()
	return mock.GetDeadLetterForUpdateFunc(ctx, id)
}

func (mock *outboxRepoMock) GetDeadLetterForUpdateCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		ID  uuid.UUID
	}
	mock.lockGetDeadLetterForUpdate.RLock()
	calls = mock.calls.GetDeadLetterForUpdate
	mock.lockGetDeadLetterForUpdate.RUnlock()
	return calls
}

func (mock *outboxRepoMock) InsertDeadLetter(ctx context.Context, dl domain.DeadLetter) error {
	if mock.InsertDeadLetterFunc == nil {
		panic("outboxRepoMock.InsertDeadLetterFunc: method is nil but outboxRepo.InsertDeadLetter was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Dl  domain.DeadLetter
	}{
		Ctx: ctx,
		Dl:  dl,
	}
	mock.lockInsertDeadLetter.Lock()
	mock.calls.InsertDeadLetter = append(mock.calls.InsertDeadLetter, callInfo)
	mock.lockInsertDeadLetter.Unlock()
	return mock.InsertDeadLetterFunc(ctx, dl)
}

func (mock *outboxRepoMock) InsertDeadLetterCalls() []struct {
	Ctx context.Context
	Dl  domain.DeadLetter
} {
	var calls []struct {
		Ctx context.Context
		Dl  domain.DeadLetter
	}
	mock.lockInsertDeadLetter.RLock()
	calls = mock.calls.InsertDeadLetter
	mock.lockInsertDeadLetter.RUnlock()
	return calls
}

func (mock *outboxRepoMock) ListDeadLetters(ctx context.Context, unresolvedOnly bool, limit int) ([]domain.DeadLetter, error) {
	if mock.ListDeadLettersFunc == nil {
		panic("outboxRepoMock.ListDeadLettersFunc: method is nil but outboxRepo.ListDeadLetters was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		UnresolvedOnly bool
		Limit          int
	}{
		Ctx:            ctx,
		UnresolvedOnly: unresolvedOnly,
		Limit:          limit,
	}
	mock.lockListDeadLetters.Lock()
	mock.calls.ListDeadLetters = append(mock.calls.ListDeadLetters, callInfo)
	mock.lockListDeadLetters.Unlock()
	return mock.ListDeadLettersFunc(ctx, unresolvedOnly, limit)
}

func (mock *outboxRepoMock) ListDeadLettersCalls() []struct {
	Ctx            context.Context
	UnresolvedOnly bool
	Limit          int
} {
	var calls []struct {
		Ctx            context.Context
		UnresolvedOnly bool
		Limit          int
	}
	mock.lockListDeadLetters.RLock()
	calls = mock.calls.ListDeadLetters
	mock.lockListDeadLetters.RUnlock()
	return calls
}

func (mock *outboxRepoMock) MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	if mock.MarkDeadFunc == nil {
		panic("outboxRepoMock.MarkDeadFunc: method is nil but outboxRepo.MarkDead was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ID       uuid.UUID
		Attempts int
		LastErr  string
	}{
		Ctx:      ctx,
		ID:       id,
		Attempts: attempts,
		LastErr:  lastErr,
	}
	mock.lockMarkDead.Lock()
	mock.calls.MarkDead = append(mock.calls.MarkDead, callInfo)
	mock.lockMarkDead.Unlock()
	return mock.MarkDeadFunc(ctx, id, attempts, lastErr)
}

func (mock *outboxRepoMock) MarkDeadCalls() []struct {
	Ctx      context.Context
	ID       uuid.UUID
	Attempts int
	LastErr  string
} {
	var calls []struct {
		Ctx      context.Context
		ID       uuid.UUID
		Attempts int
		LastErr  string
	}
	mock.lockMarkDead.RLock()
	calls = mock.calls.MarkDead
	mock.lockMarkDead.RUnlock()
	return calls
}

func (mock *outboxRepoMock) MarkSent(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error {
	if mock.MarkSentFunc == nil {
		panic("outboxRepoMock.MarkSentFunc: method is nil but outboxRepo.MarkSent was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ID       uuid.UUID
		Attempts int
		At       time.Time
	}{
		Ctx:      ctx,
		ID:       id,
		Attempts: attempts,
		At:       at,
	}
	mock.lockMarkSent.Lock()
	mock.calls.MarkSent = append(mock.calls.MarkSent, callInfo)
	mock.lockMarkSent.Unlock()
	return mock.MarkSentFunc(ctx, id, attempts, at)
}

func (mock *outboxRepoMock) MarkSentCalls() []struct {
	Ctx      context.Context
	ID       uuid.UUID
	Attempts int
	At       time.Time
} {
	var calls []struct {
		Ctx      context.Context
		ID       uuid.UUID
		Attempts int
		At       time.Time
	}
	mock.lockMarkSent.RLock()
	calls = mock.calls.MarkSent
	mock.lockMarkSent.RUnlock()
	return calls
}

func (mock *outboxRepoMock) PendingIDs(ctx context.Context, olderThan time.Time, now time.Time, limit int) ([]uuid.UUID, error) {
	if mock.PendingIDsFunc == nil {
		panic("outboxRepoMock.PendingIDsFunc: method is nil but outboxRepo.PendingIDs was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		OlderThan time.Time
		Now       time.Time
		Limit     int
	}{
		Ctx:       ctx,
		OlderThan: olderThan,
		Now:       now,
		Limit:     limit,
	}
	mock.lockPendingIDs.Lock()
	mock.calls.PendingIDs = append(mock.calls.PendingIDs, callInfo)
	mock.lockPendingIDs.Unlock()
	return mock.PendingIDsFunc(ctx, olderThan, now, limit)
}

func (mock *outboxRepoMock) PendingIDsCalls() []struct {
	Ctx       context.Context
	OlderThan time.Time
	Now       time.Time
	Limit     int
} {
	var calls []struct {
		Ctx       context.Context
		OlderThan time.Time
		Now       time.Time
		Limit     int
	}
	mock.lockPendingIDs.RLock()
	calls = mock.calls.PendingIDs
	mock.lockPendingIDs.RUnlock()
	return calls
}

func (mock *outboxRepoMock) Release(ctx context.Context, id uuid.UUID) error {
	if mock.ReleaseFunc == nil {
		panic("outboxRepoMock.ReleaseFunc: method is nil but outboxRepo.Release was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockRelease.Lock()
	mock.calls.Release = append(mock.calls.Release, callInfo)
	mock.lockRelease.Unlock()
	return mock.ReleaseFunc(ctx, id)
}

func (mock *outboxRepoMock) ReleaseCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		ID  uuid.UUID
	}
	mock.lockRelease.RLock()
	calls = mock.calls.Release
	mock.lockRelease.RUnlock()
	return calls
}

func (mock *outboxRepoMock) Requeue(ctx context.Context, id uuid.UUID) error {
	if mock.RequeueFunc == nil {
		panic("outboxRepoMock.RequeueFunc: method is nil but outboxRepo.Requeue was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockRequeue.Lock()
	mock.calls.Requeue = append(mock.calls.Requeue, callInfo)
	mock.lockRequeue.Unlock()
	return mock.RequeueFunc(ctx, id)
}

func (mock *outboxRepoMock) RequeueCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		ID  uuid.UUID
	}
	mock.lockRequeue.RLock()
	calls = mock.calls.Requeue
	mock.lockRequeue.RUnlock()
	return calls
}

func (mock *outboxRepoMock) ResolveDeadLetter(ctx context.Context, id uuid.UUID, at time.Time) error {
	if mock.ResolveDeadLetterFunc == nil {
		panic("outboxRepoMock.ResolveDeadLetterFunc: method is nil but outboxRepo.ResolveDeadLetter was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}{
		Ctx: ctx,
		ID:  id,
		At:  at,
	}
	mock.lockResolveDeadLetter.Lock()
	mock.calls.ResolveDeadLetter = append(mock.calls.ResolveDeadLetter, callInfo)
	mock.lockResolveDeadLetter.Unlock()
	return mock.ResolveDeadLetterFunc(ctx, id, at)
}

func (mock *outboxRepoMock) ResolveDeadLetterCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	At  time.Time
} {
	var calls []struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}
	mock.lockResolveDeadLetter.RLock()
	calls = mock.calls.ResolveDeadLetter
	mock.lockResolveDeadLetter.RUnlock()
	return calls
}
