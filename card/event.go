package card

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// LimitAssignedName is the event name for LimitAssigned
	LimitAssignedName = "LimitAssigned"
	// TransactionAcceptedName is the event name for TransactionAccepted
	TransactionAcceptedName = "TransactionAccepted"
	// TransactionRejectedName is the event name for TransactionRejected
	TransactionRejectedName = "TransactionRejected"
	// CardBlockedName is the event name for CardBlocked
	CardBlockedName = "CardBlocked"
	// CardBlockedRejectedName is the event name for CardBlockedRejected
	CardBlockedRejectedName = "CardBlockedRejected"
	// CardUnblockedName is the event name for CardUnblocked
	CardUnblockedName = "CardUnblocked"
)

type (
	// Event is a member of the closed set of debit card domain events.
	// An event is an immutable fact, the only unit of persisted change.
	Event interface {
		EventName() string

		isDebitCardEvent()
	}

	// SuccessEvent is an Event recording an accepted state change
	SuccessEvent interface {
		Event

		isSuccessEvent()
	}

	// FailureEvent is an Event recording a refused attempt.
	// Failure events are appended and persisted like any other, they are the
	// audit trail of commands the card rejected.
	FailureEvent interface {
		Event

		isFailureEvent()
	}

	// LimitAssigned records the first-and-only assignment of the card limit
	LimitAssigned struct {
		Limit decimal.Decimal `json:"limit"`
	}

	// TransactionAccepted records a charge or pay-off applied to the balance.
	// Value is the signed fold value, negative for charges.
	TransactionAccepted struct {
		TransactionID uuid.UUID       `json:"transaction_id"`
		Value         decimal.Decimal `json:"value"`
	}

	// TransactionRejected records a refused charge, the balance is unchanged
	TransactionRejected struct {
		TransactionID uuid.UUID       `json:"transaction_id"`
		Value         decimal.Decimal `json:"value"`
	}

	// CardBlocked records the unblocked to blocked transition
	CardBlocked struct{}

	// CardBlockedRejected records a block request on an already blocked card
	CardBlockedRejected struct{}

	// CardUnblocked records the blocked to unblocked transition
	CardUnblocked struct{}
)

var (
	_ SuccessEvent = LimitAssigned{}
	_ SuccessEvent = TransactionAccepted{}
	_ FailureEvent = TransactionRejected{}
	_ SuccessEvent = CardBlocked{}
	_ FailureEvent = CardBlockedRejected{}
	_ SuccessEvent = CardUnblocked{}
)

// EventName returns the wire name of the event
func (LimitAssigned) EventName() string { return LimitAssignedName }

// EventName returns the wire name of the event
func (TransactionAccepted) EventName() string { return TransactionAcceptedName }

// EventName returns the wire name of the event
func (TransactionRejected) EventName() string { return TransactionRejectedName }

// EventName returns the wire name of the event
func (CardBlocked) EventName() string { return CardBlockedName }

// EventName returns the wire name of the event
func (CardBlockedRejected) EventName() string { return CardBlockedRejectedName }

// EventName returns the wire name of the event
func (CardUnblocked) EventName() string { return CardUnblockedName }

func (LimitAssigned) isDebitCardEvent()       {}
func (TransactionAccepted) isDebitCardEvent() {}
func (TransactionRejected) isDebitCardEvent() {}
func (CardBlocked) isDebitCardEvent()         {}
func (CardBlockedRejected) isDebitCardEvent() {}
func (CardUnblocked) isDebitCardEvent()       {}

func (LimitAssigned) isSuccessEvent()       {}
func (TransactionAccepted) isSuccessEvent() {}
func (CardBlocked) isSuccessEvent()         {}
func (CardUnblocked) isSuccessEvent()       {}

func (TransactionRejected) isFailureEvent() {}
func (CardBlockedRejected) isFailureEvent() {}
