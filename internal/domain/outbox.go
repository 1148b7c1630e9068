package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the delivery state of an outbox row.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxDead    OutboxStatus = "DEAD"
)

func (s OutboxStatus) String() string { return string(s) }

// OutboxMessage is a serialized event written in the same transaction as the
// book mutation it describes. Payload is the exact byte sequence handed to
// the outbound channel.
type OutboxMessage struct {
	ID          uuid.UUID
	EventType   EventType
	AggregateID uuid.UUID
	Payload     []byte
	Status      OutboxStatus
	Attempts    int
	LastError   *string
	CreatedAt   time.Time
	SentAt      *time.Time
}

// DeadLetter is a reconciliation record for an event whose delivery
// attempts were exhausted. It stays unresolved until an operator requeues it.
type DeadLetter struct {
	ID          uuid.UUID
	OutboxID    uuid.UUID
	EventType   EventType
	AggregateID uuid.UUID
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// IsResolved reports whether the dead letter has been requeued.
func (d *DeadLetter) IsResolved() bool {
	return d.ResolvedAt != nil
}
