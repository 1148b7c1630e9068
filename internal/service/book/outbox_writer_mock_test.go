package book

import (
	"context"
	"sync"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var _ outboxWriter = &outboxWriterMock{}

type outboxWriterMock struct {
	AppendFunc func(ctx context.Context, msg domain.OutboxMessage) error

	calls struct {
		Append []struct {
			Ctx context.Context
			Msg domain.OutboxMessage
		}
	}
	lockAppend sync.RWMutex
}

func (mock *outboxWriterMock) Append(ctx context.Context, msg domain.OutboxMessage) error {
	if mock.AppendFunc == nil {
		panic("outboxWriterMock.AppendFunc: method is nil but outboxWriter.Append was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Msg domain.OutboxMessage
	}{
		Ctx: ctx,
		Msg: msg,
	}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, msg)
}

func (mock *outboxWriterMock) AppendCalls() []struct {
	Ctx context.Context
	Msg domain.OutboxMessage
} {
	var calls []struct {
		Ctx context.Context
		Msg domain.OutboxMessage
	}
	mock.lockAppend.RLock()
	calls = mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}
