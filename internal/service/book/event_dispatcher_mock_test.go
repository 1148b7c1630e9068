package book

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ eventDispatcher = &eventDispatcherMock{}

type eventDispatcherMock struct {
	DispatchFunc func(ctx context.Context, outboxID uuid.UUID) error

	calls struct {
		Dispatch []struct {
			Ctx      context.Context
			OutboxID uuid.UUID
		}
	}
	lockDispatch sync.RWMutex
}

func (mock *eventDispatcherMock) Dispatch(ctx context.Context, outboxID uuid.UUID) error {
	if mock.DispatchFunc == nil {
		panic("eventDispatcherMock.DispatchFunc: method is nil but eventDispatcher.Dispatch was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		OutboxID uuid.UUID
	}{
		Ctx:      ctx,
		OutboxID: outboxID,
	}
	mock.lockDispatch.Lock()
	mock.calls.Dispatch = append(mock.calls.Dispatch, callInfo)
	mock.lockDispatch.Unlock()
	return mock.DispatchFunc(ctx, outboxID)
}

func (mock *eventDispatcherMock) DispatchCalls() []struct {
	Ctx      context.Context
	OutboxID uuid.UUID
} {
	var calls []struct {
		Ctx      context.Context
		OutboxID uuid.UUID
	}
	mock.lockDispatch.RLock()
	calls = mock.calls.Dispatch
	mock.lockDispatch.RUnlock()
	return calls
}
