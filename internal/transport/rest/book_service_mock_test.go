package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/internal/service/book"
)

var _ bookService = &bookServiceMock{}

type bookServiceMock struct {
	CreateBookFunc func(ctx context.Context, input book.CreateBookInput) (*domain.Book, error)

	DeleteBookFunc func(ctx context.Context, input book.DeleteBookInput) (*domain.Book, error)

	GetBookFunc func(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)

	UpdateBookFunc func(ctx context.Context, input book.UpdateBookInput) (*domain.Book, error)

	calls struct {
		CreateBook []struct {
			Ctx   context.Context
			Input book.CreateBookInput
		}
		DeleteBook []struct {
			Ctx   context.Context
			Input book.DeleteBookInput
		}
		GetBook []struct {
			Ctx    context.Context
			BookID uuid.UUID
		}
		UpdateBook []struct {
			Ctx   context.Context
			Input book.UpdateBookInput
		}
	}
	lockCreateBook sync.RWMutex
	lockDeleteBook sync.RWMutex
	lockGetBook    sync.RWMutex
	lockUpdateBook sync.RWMutex
}

func (mock *bookServiceMock) CreateBook(ctx context.Context, input book.CreateBookInput) (*domain.Book, error) {
	if mock.CreateBookFunc == nil {
		panic("bookServiceMock.CreateBookFunc: method is nil but bookService.CreateBook was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input book.CreateBookInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockCreateBook.Lock()
	mock.calls.CreateBook = append(mock.calls.CreateBook, callInfo)
	mock.lockCreateBook.Unlock()
	return mock.CreateBookFunc(ctx, input)
}

func (mock *bookServiceMock) CreateBookCalls() []struct {
	Ctx   context.Context
	Input book.CreateBookInput
} {
	var calls []struct {
		Ctx   context.Context
		Input book.CreateBookInput
	}
	mock.lockCreateBook.RLock()
	calls = mock.calls.CreateBook
	mock.lockCreateBook.RUnlock()
	return calls
}

func (mock *bookServiceMock) DeleteBook(ctx context.Context, input book.DeleteBookInput) (*domain.Book, error) {
	if mock.DeleteBookFunc == nil {
		panic("bookServiceMock.DeleteBookFunc: method is nil but bookService.DeleteBook was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input book.DeleteBookInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockDeleteBook.Lock()
	mock.calls.DeleteBook = append(mock.calls.DeleteBook, callInfo)
	mock.lockDeleteBook.Unlock()
	return mock.DeleteBookFunc(ctx, input)
}

func (mock *bookServiceMock) DeleteBookCalls() []struct {
	Ctx   context.Context
	Input book.DeleteBookInput
} {
	var calls []struct {
		Ctx   context.Context
		Input book.DeleteBookInput
	}
	mock.lockDeleteBook.RLock()
	calls = mock.calls.DeleteBook
	mock.lockDeleteBook.RUnlock()
	return calls
}

func (mock *bookServiceMock) GetBook(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	if mock.GetBookFunc == nil {
		panic("bookServiceMock.GetBookFunc: method is nil but bookService.GetBook was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		BookID uuid.UUID
	}{
		Ctx:    ctx,
		BookID: bookID,
	}
	mock.lockGetBook.Lock()
	mock.calls.GetBook = append(mock.calls.GetBook, callInfo)
	mock.lockGetBook.Unlock()
	return mock.GetBookFunc(ctx, bookID)
}

func (mock *bookServiceMock) GetBookCalls() []struct {
	Ctx    context.Context
	BookID uuid.UUID
} {
	var calls []struct {
		Ctx    context.Context
		BookID uuid.UUID
	}
	mock.lockGetBook.RLock()
	calls = mock.calls.GetBook
	mock.lockGetBook.RUnlock()
	return calls
}

func (mock *bookServiceMock) UpdateBook(ctx context.Context, input book.UpdateBookInput) (*domain.Book, error) {
	if mock.UpdateBookFunc == nil {
		panic("bookServiceMock.UpdateBookFunc: method is nil but bookService.UpdateBook was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input book.UpdateBookInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockUpdateBook.Lock()
	mock.calls.UpdateBook = append(mock.calls.UpdateBook, callInfo)
	mock.lockUpdateBook.Unlock()
	return mock.UpdateBookFunc(ctx, input)
}

func (mock *bookServiceMock) UpdateBookCalls() []struct {
	Ctx   context.Context
	Input book.UpdateBookInput
} {
	var calls []struct {
		Ctx   context.Context
		Input book.UpdateBookInput
	}
	mock.lockUpdateBook.RLock()
	calls = mock.calls.UpdateBook
	mock.lockUpdateBook.RUnlock()
	return calls
}
