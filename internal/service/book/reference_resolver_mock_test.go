package book

import (
	"context"
	"sync"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var _ referenceResolver = &referenceResolverMock{}

type referenceResolverMock struct {
	ResolveFunc func(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error)

	calls struct {
		Resolve []struct {
			Ctx  context.Context
			Kind domain.ReferenceKind
			Name string
		}
	}
	lockResolve sync.RWMutex
}

func (mock *referenceResolverMock) Resolve(ctx context.Context, kind domain.ReferenceKind, name string) (domain.Reference, error) {
	if mock.ResolveFunc == nil {
		panic("referenceResolverMock.ResolveFunc: method is nil but referenceResolver.Resolve was just called")
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
	mock.lockResolve.Lock()
	mock.calls.Resolve = append(mock.calls.Resolve, callInfo)
	mock.lockResolve.Unlock()
	return mock.ResolveFunc(ctx, kind, name)
}

func (mock *referenceResolverMock) ResolveCalls() []struct {
	Ctx  context.Context
	Kind domain.ReferenceKind
	Name string
} {
	var calls []struct {
		Ctx  context.Context
		Kind domain.ReferenceKind
		Name string
	}
	mock.lockResolve.RLock()
	calls = mock.calls.Resolve
	mock.lockResolve.RUnlock()
	return calls
}
