package inmemory

import (
	"context"
	"sync"

	"github.com/cardkit/debitcard"
	"github.com/cardkit/debitcard/card"
	"github.com/google/uuid"
)

// baseVersion is the version a brand-new card history is stored at
const baseVersion int64 = 0

// Ensure that we satisfy the card.Repository interface
var _ card.Repository = &Repository{}

// versionedEvents is the stored envelope per card id: the optimistic locking
// version plus the full ordered event history
type versionedEvents struct {
	version int64
	events  []card.Event
}

// Repository is an in-memory card.Repository.
//
// It keeps one versioned event history per card id in a map guarded by a
// RWMutex. The compare-and-append of Save happens as a single atomic step
// relative to the key, two saves racing from the same observed version can
// never both succeed.
type Repository struct {
	sync.RWMutex

	logger debitcard.Logger
	cards  map[uuid.UUID]versionedEvents
}

// NewRepository returns a new in-memory Repository
func NewRepository(logger debitcard.Logger) *Repository {
	if logger == nil {
		logger = debitcard.NopLogger
	}

	return &Repository{
		logger: logger,
		cards:  map[uuid.UUID]versionedEvents{},
	}
}

// GetByID reconstitutes the card from its stored history.
// Reads never mutate the store, every call derives a fresh independent value.
func (r *Repository) GetByID(ctx context.Context, cardID uuid.UUID) (card.DebitCard, error) {
	r.RLock()
	defer r.RUnlock()

	stored, known := r.cards[cardID]
	if !known {
		return card.DebitCard{}, card.ErrCardNotFound
	}

	return card.FromEvents(cardID, stored.version, stored.events), nil
}

// GetSummaryByID returns the read-only view of the stored card
func (r *Repository) GetSummaryByID(ctx context.Context, cardID uuid.UUID) (card.Summary, error) {
	loaded, err := r.GetByID(ctx, cardID)
	if err != nil {
		return card.Summary{}, err
	}

	return loaded.Summary(), nil
}

// Save appends the pending changes of the card to its stored history.
// An unknown id is stored at the base version, a known id requires the stored
// version to equal the version the card was loaded with and increments it.
func (r *Repository) Save(ctx context.Context, c card.DebitCard) error {
	pendingChanges := c.PendingChanges()

	r.Lock()
	defer r.Unlock()

	stored, known := r.cards[c.ID()]
	if !known {
		r.cards[c.ID()] = versionedEvents{
			version: baseVersion,
			events:  copyEvents(nil, pendingChanges),
		}

		return nil
	}

	if stored.version != c.Version() {
		r.logger.Debug("rejected save of stale card", func(e debitcard.LoggerEntry) {
			e.String("card_id", c.ID().String())
			e.Int64("stored_version", stored.version)
			e.Int64("loaded_version", c.Version())
		})

		return card.ErrVersionConflict
	}

	r.cards[c.ID()] = versionedEvents{
		version: stored.version + 1,
		events:  copyEvents(stored.events, pendingChanges),
	}

	return nil
}

// copyEvents appends the changes to a copy of the stored events so that
// readers holding the previous slice never observe the mutation
func copyEvents(stored []card.Event, changes []card.Event) []card.Event {
	events := make([]card.Event, len(stored), len(stored)+len(changes))
	copy(events, stored)

	return append(events, changes...)
}
