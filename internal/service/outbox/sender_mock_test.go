package outbox

import (
	"context"
	"sync"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var _ sender = &senderMock{}

type senderMock struct {
	SendFunc func(ctx context.Context, msg domain.OutboxMessage) error

	calls struct {
		Send []struct {
			Ctx context.Context
			Msg domain.OutboxMessage
		}
	}
	lockSend sync.RWMutex
}

func (mock *senderMock) Send(ctx context.Context, msg domain.OutboxMessage) error {
	if mock.SendFunc == nil {
		panic("senderMock.SendFunc: method is nil but sender.Send was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Msg domain.OutboxMessage
	}{
		Ctx: ctx,
		Msg: msg,
	}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, msg)
}

func (mock *senderMock) SendCalls() []struct {
	Ctx context.Context
	Msg domain.OutboxMessage
} {
	var calls []struct {
		Ctx context.Context
		Msg domain.OutboxMessage
	}
	mock.lockSend.RLock()
	calls = mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
