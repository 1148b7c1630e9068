package outbox

import (
	"context"
	"sync"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var _ publisher = &publisherMock{}

type publisherMock struct {
	PublishFunc func(ctx context.Context, msg domain.OutboxMessage) (int, error)

	calls struct {
		Publish []struct {
			Ctx context.Context
			Msg domain.OutboxMessage
		}
	}
	lockPublish sync.RWMutex
}

func (mock *publisherMock) Publish(ctx context.Context, msg domain.OutboxMessage) (int, error) {
	if mock.PublishFunc == nil {
		panic("publisherMock.PublishFunc: method is nil but publisher.Publish was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Msg domain.OutboxMessage
	}{
		Ctx: ctx,
		Msg: msg,
	}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	return mock.PublishFunc(ctx, msg)
}

func (mock *publisherMock) PublishCalls() []struct {
	Ctx context.Context
	Msg domain.OutboxMessage
} {
	var calls []struct {
		Ctx context.Context
		Msg domain.OutboxMessage
	}
	mock.lockPublish.RLock()
	calls = mock.calls.Publish
	mock.lockPublish.RUnlock()
	return calls
}
