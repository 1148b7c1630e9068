package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/internal/service/book"
)

type bookService interface {
	CreateBook(ctx context.Context, input book.CreateBookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, input book.UpdateBookInput) (*domain.Book, error)
	DeleteBook(ctx context.Context, input book.DeleteBookInput) (*domain.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)
}

// BookHandler serves the /api/books endpoints.
type BookHandler struct {
	svc          bookService
	errs         errorMapper
	maxBodyBytes int64
}

// NewBookHandler creates a BookHandler.
func NewBookHandler(svc bookService, logger *slog.Logger, hideForbidden bool, maxBodyBytes int64) *BookHandler {
	log := logger.With("handler", "books")
	return &BookHandler{
		svc:          svc,
		errs:         errorMapper{log: log, hideForbidden: hideForbidden},
		maxBodyBytes: maxBodyBytes,
	}
}

type createBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

type updateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
}

type referenceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type bookResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Author    referenceResponse `json:"author"`
	Genre     referenceResponse `json:"genre"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type mutationResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Book    *bookResponse `json:"book,omitempty"`
}

type dataResponse struct {
	Success bool         `json:"success"`
	Data    bookResponse `json:"data"`
}

// Create handles POST /api/books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.svc.CreateBook(r.Context(), book.CreateBookInput{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
	})
	if err != nil {
		h.errs.write(w, r, err, "Forbidden")
		return
	}

	resp := toBookResponse(b)
	writeJSON(w, http.StatusCreated, mutationResponse{Success: true, Message: "Book created successfully", Book: &resp})
}

// Get handles GET /api/books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	b, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err, "Forbidden")
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: toBookResponse(b)})
}

// Update handles PUT /api/books/{id}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateBookRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.svc.UpdateBook(r.Context(), book.UpdateBookInput{
		BookID: id,
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
	})
	if err != nil {
		h.errs.write(w, r, err, "Forbidden: You are not allowed to edit this book")
		return
	}

	resp := toBookResponse(b)
	writeJSON(w, http.StatusOK, mutationResponse{Success: true, Message: "Book updated successfully", Book: &resp})
}

// Delete handles DELETE /api/books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.DeleteBook(r.Context(), book.DeleteBookInput{BookID: id}); err != nil {
		h.errs.write(w, r, err, "Forbidden: You are not allowed to delete this book")
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{Success: true, Message: "Book deleted successfully"})
}

// pathID parses the {id} segment.
func (h *BookHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return uuid.Nil, false
	}
	return id, true
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		Title:     b.Title,
		Author:    referenceResponse{ID: b.Author.ID.String(), Name: b.Author.Name},
		Genre:     referenceResponse{ID: b.Genre.ID.String(), Name: b.Genre.Name},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
