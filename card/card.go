package card

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// DebitCard is the debit card aggregate root.
	//
	// A DebitCard is an immutable value, every transition returns a new value
	// and leaves the receiver untouched. This is what makes concurrent command
	// handling sound without locks, no aggregate instance is ever shared in a
	// mutable state between two in-flight commands.
	DebitCard struct {
		id             uuid.UUID
		version        int64
		pendingChanges []Event
		limit          decimal.Decimal
		limitAssigned  bool
		balance        decimal.Decimal
		blocked        bool
	}

	// Summary is the read-only projection of a DebitCard.
	// It never exposes pending changes or the storage version.
	Summary struct {
		CardID  uuid.UUID        `json:"card_id"`
		Balance decimal.Decimal  `json:"balance"`
		Limit   *decimal.Decimal `json:"limit,omitempty"`
		Blocked bool             `json:"blocked"`
	}
)

// New returns a fresh DebitCard with a newly generated id, no limit,
// zero balance, unblocked and no pending changes
func New() DebitCard {
	return NewWithID(uuid.New())
}

// NewWithID returns a fresh DebitCard for the given id
func NewWithID(cardID uuid.UUID) DebitCard {
	return DebitCard{id: cardID}
}

// FromEvents reconstitutes a DebitCard by replaying its full event history
// left to right over a fresh aggregate. The returned card carries the version
// it was stored with and has no pending changes.
func FromEvents(cardID uuid.UUID, version int64, events []Event) DebitCard {
	card := NewWithID(cardID)
	card.version = version

	for _, event := range events {
		card = card.applyWithAppend(event)
	}

	return card.FlushChanges()
}

// ID returns the card identifier
func (d DebitCard) ID() uuid.UUID {
	return d.id
}

// Version returns the version the card was loaded with.
// The version is only used for optimistic concurrency, never for business logic.
func (d DebitCard) Version() int64 {
	return d.version
}

// PendingChanges returns the events appended since the card was created,
// loaded or last flushed
func (d DebitCard) PendingChanges() []Event {
	return d.pendingChanges
}

// FlushChanges returns a copy of the card with the pending changes cleared.
// Callers use this after the pending changes were successfully persisted.
func (d DebitCard) FlushChanges() DebitCard {
	d.pendingChanges = nil
	return d
}

// AssignLimit assigns the spending limit of the card.
// The limit can be assigned once, a card that already has a limit is returned
// unchanged with no new pending event.
func (d DebitCard) AssignLimit(limit decimal.Decimal) DebitCard {
	if d.limitAssigned {
		return d
	}

	return d.applyWithAppend(LimitAssigned{Limit: limit})
}

// ApplyTransaction evaluates a charge or pay-off against the card and appends
// exactly one TransactionAccepted or TransactionRejected event
func (d DebitCard) ApplyTransaction(transaction TransactionCommand) DebitCard {
	switch transaction.kind {
	case payOffTransaction:
		return d.payOffCard(transaction)
	default:
		return d.chargeCard(transaction)
	}
}

// Block transitions the card to blocked, or appends CardBlockedRejected when
// the card is already blocked
func (d DebitCard) Block() DebitCard {
	if d.blocked {
		return d.applyWithAppend(CardBlockedRejected{})
	}

	return d.applyWithAppend(CardBlocked{})
}

// Unblock transitions a blocked card back to unblocked.
// Unblocking an unblocked card is a no-op, no event is appended.
func (d DebitCard) Unblock() DebitCard {
	if !d.blocked {
		return d
	}

	return d.applyWithAppend(CardUnblocked{})
}

// Summary returns the read-only view of the card
func (d DebitCard) Summary() Summary {
	summary := Summary{
		CardID:  d.id,
		Balance: d.balance,
		Blocked: d.blocked,
	}

	if d.limitAssigned {
		limit := d.limit
		summary.Limit = &limit
	}

	return summary
}

func (d DebitCard) payOffCard(transaction TransactionCommand) DebitCard {
	return d.applyWithAppend(TransactionAccepted{
		TransactionID: transaction.transactionID,
		Value:         transaction.value,
	})
}

func (d DebitCard) chargeCard(transaction TransactionCommand) DebitCard {
	if !d.blocked && d.hasEnoughMoney(transaction.value) {
		return d.applyWithAppend(TransactionAccepted{
			TransactionID: transaction.transactionID,
			Value:         transaction.value,
		})
	}

	return d.applyWithAppend(TransactionRejected{
		TransactionID: transaction.transactionID,
		Value:         transaction.value,
	})
}

// hasEnoughMoney reports whether the balance after the transaction stays at or
// above the limit floor. The assigned limit is a positive spending capacity,
// the floor is its negation. A card without an assigned limit has no headroom.
func (d DebitCard) hasEnoughMoney(value decimal.Decimal) bool {
	if !d.limitAssigned {
		return false
	}

	balanceAfter := d.balance.Add(value)

	return balanceAfter.GreaterThanOrEqual(d.limit.Neg())
}

// applyWithAppend records the event as a pending change and applies its state
// transition rule. The fold is total over the closed event set, rejection
// events are recorded but change no state.
func (d DebitCard) applyWithAppend(event Event) DebitCard {
	d.pendingChanges = appendEvent(d.pendingChanges, event)

	switch e := event.(type) {
	case LimitAssigned:
		d.limit = e.Limit
		d.limitAssigned = true
		d.balance = decimal.Zero
	case TransactionAccepted:
		d.balance = d.balance.Add(e.Value)
	case CardBlocked:
		d.blocked = true
	case CardUnblocked:
		d.blocked = false
	case TransactionRejected, CardBlockedRejected:
	}

	return d
}

// appendEvent appends to a copy of the events so that two cards derived from
// the same value never share a backing array
func appendEvent(events []Event, event Event) []Event {
	changes := make([]Event, len(events), len(events)+1)
	copy(changes, events)

	return append(changes, event)
}
