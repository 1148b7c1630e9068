package reference

import (
	"context"
	"sync"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var _ referenceRepo = &referenceRepoMock{}

type referenceRepoMock struct {
	GetOrCreateFunc func(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error)

	calls struct {
		GetOrCreate []struct {
			Ctx  context.Context
			Kind domain.ReferenceKind
			Name string
		}
	}
	lockGetOrCreate sync.RWMutex
}

func (mock *referenceRepoMock) GetOrCreate(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error) {
	if mock.GetOrCreateFunc == nil {
		panic("referenceRepoMock.GetOrCreateFunc: method is nil but referenceRepo.GetOrCreate was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Kind domain.ReferenceKind
		Name string
	}{
		Ctx:  ctx,
		Kind: kind,
		Name: name,
	}
	mock.lockGetOrCreate.Lock()
	mock.calls.GetOrCreate = append(mock.calls.GetOrCreate, callInfo)
	mock.lockGetOrCreate.Unlock()
	return mock.GetOrCreateFunc(ctx, kind, name)
}

func (mock *referenceRepoMock) GetOrCreateCalls() []struct {
	Ctx  context.Context
	Kind domain.ReferenceKind
	Name string
} {
	var calls []struct {
		Ctx  context.Context
		Kind domain.ReferenceKind
		Name string
	}
	mock.lockGetOrCreate.RLock()
	calls = mock.calls.GetOrCreate
	mock.lockGetOrCreate.RUnlock()
	return calls
}
