package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the kind of book mutation announced to downstream consumers.
type EventType string

const (
	EventBookCreated EventType = "BOOK_CREATED"
	EventBookUpdated EventType = "BOOK_UPDATED"
	EventBookDeleted EventType = "BOOK_DELETED"
)

func (t EventType) String() string { return string(t) }

func (t EventType) IsValid() bool {
	switch t {
	case EventBookCreated, EventBookUpdated, EventBookDeleted:
		return true
	}
	return false
}

// BookEvent is the envelope published for every committed book mutation.
// EventID equals the outbox row id and stays the same across redeliveries,
// so consumers deduplicate on it.
type BookEvent struct {
	EventID   uuid.UUID     `json:"eventId"`
	EventType EventType     `json:"eventType"`
	Timestamp time.Time     `json:"timestamp"`
	Data      BookEventData `json:"data"`
}

// BookEventData is the book snapshot carried by an event.
// BOOK_DELETED only carries BookID and UserID.
type BookEventData struct {
	BookID    uuid.UUID       `json:"book_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Title     *string         `json:"title,omitempty"`
	Author    *EventReference `json:"author,omitempty"`
	Genre     *EventReference `json:"genre,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// EventReference is the {id, name} pair of an author or genre inside an event.
type EventReference struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewBookEvent builds the envelope for eventType from the committed row.
// The snapshot must be the row returned by storage, never the request payload.
func NewBookEvent(id uuid.UUID, eventType EventType, book *Book, at time.Time) BookEvent {
	data := BookEventData{
		BookID: book.ID,
		UserID: book.UserID,
	}

	if eventType != EventBookDeleted {
		title := book.Title
		createdAt := book.CreatedAt.UTC()
		updatedAt := book.UpdatedAt.UTC()
		data.Title = &title
		data.Author = &EventReference{ID: book.Author.ID, Name: book.Author.Name}
		data.Genre = &EventReference{ID: book.Genre.ID, Name: book.Genre.Name}
		data.CreatedAt = &createdAt
		data.UpdatedAt = &updatedAt
	}

	return BookEvent{
		EventID:   id,
		EventType: eventType,
		Timestamp: at.UTC(),
		Data:      data,
	}
}
