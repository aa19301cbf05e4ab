package card

import (
	"context"

	"github.com/cardkit/debitcard"
	"github.com/google/uuid"
)

// ErrVersionConflict occurs when the stored version at save time no longer
// matches the version the card was loaded with. The condition is local and
// recoverable, callers reload the card and retry the command.
const ErrVersionConflict = debitcard.Error("debitcard: version conflict while saving card")

type (
	// Repository stores and loads debit cards by id.
	//
	// Save must be atomic per card id with respect to concurrent saves: a card
	// with an unknown id is stored at the base version with exactly its pending
	// changes, a known id appends the pending changes only when the stored
	// version equals the version the card was loaded with and increments the
	// stored version by one. On a mismatch Save fails with ErrVersionConflict
	// and applies no mutation. Save never refreshes the in-hand card, callers
	// reload or flush before issuing further commands against the same value.
	Repository interface {
		// GetByID returns the card reconstituted from its stored history,
		// or ErrCardNotFound
		GetByID(ctx context.Context, cardID uuid.UUID) (DebitCard, error)

		// GetSummaryByID returns the read-only view of the card,
		// or ErrCardNotFound
		GetSummaryByID(ctx context.Context, cardID uuid.UUID) (Summary, error)

		// Save persists the pending changes of the card
		Save(ctx context.Context, card DebitCard) error
	}

	// EventPublisher publishes persisted card events to interested parties
	EventPublisher interface {
		Publish(ctx context.Context, cardID uuid.UUID, events []Event) error
	}
)

// NopPublisher is a no-op EventPublisher used when no broker is configured
var NopPublisher EventPublisher = nopPublisher{}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, uuid.UUID, []Event) error {
	return nil
}
