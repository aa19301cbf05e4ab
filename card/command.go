package card

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// Command is a request to mutate a single debit card
	Command interface {
		// AggregateID returns the id of the card the command targets
		AggregateID() uuid.UUID
		// CommandName returns the name used for logging and metrics
		CommandName() string
	}

	// AssignLimitCommand assigns the spending limit of a card
	AssignLimitCommand struct {
		CardID uuid.UUID       `json:"card_id"`
		Limit  decimal.Decimal `json:"limit"`
	}

	// ChargeCardCommand charges an amount against a card.
	// Amount is a positive magnitude, sign normalization happens inside the core.
	ChargeCardCommand struct {
		CardID        uuid.UUID       `json:"card_id"`
		TransactionID uuid.UUID       `json:"transaction_id"`
		Amount        decimal.Decimal `json:"amount"`
	}

	// PayOffCardCommand pays an amount back onto a card
	PayOffCardCommand struct {
		CardID        uuid.UUID       `json:"card_id"`
		TransactionID uuid.UUID       `json:"transaction_id"`
		Amount        decimal.Decimal `json:"amount"`
	}

	// BlockCardCommand blocks a card
	BlockCardCommand struct {
		CardID uuid.UUID `json:"card_id"`
	}

	// UnblockCardCommand unblocks a card
	UnblockCardCommand struct {
		CardID uuid.UUID `json:"card_id"`
	}
)

// AggregateID returns the id of the card the command targets
func (c AssignLimitCommand) AggregateID() uuid.UUID { return c.CardID }

// CommandName returns the name used for logging and metrics
func (c AssignLimitCommand) CommandName() string { return "assign_limit" }

// AggregateID returns the id of the card the command targets
func (c ChargeCardCommand) AggregateID() uuid.UUID { return c.CardID }

// CommandName returns the name used for logging and metrics
func (c ChargeCardCommand) CommandName() string { return "charge_card" }

// AggregateID returns the id of the card the command targets
func (c PayOffCardCommand) AggregateID() uuid.UUID { return c.CardID }

// CommandName returns the name used for logging and metrics
func (c PayOffCardCommand) CommandName() string { return "pay_off_card" }

// AggregateID returns the id of the card the command targets
func (c BlockCardCommand) AggregateID() uuid.UUID { return c.CardID }

// CommandName returns the name used for logging and metrics
func (c BlockCardCommand) CommandName() string { return "block_card" }

// AggregateID returns the id of the card the command targets
func (c UnblockCardCommand) AggregateID() uuid.UUID { return c.CardID }

// CommandName returns the name used for logging and metrics
func (c UnblockCardCommand) CommandName() string { return "unblock_card" }

type transactionKind int

const (
	chargeTransaction transactionKind = iota
	payOffTransaction
)

// TransactionCommand is the normalized form of a charge or pay-off.
// Both directions fold into the balance as a single signed addition.
type TransactionCommand struct {
	kind          transactionKind
	transactionID uuid.UUID
	value         decimal.Decimal
}

// Charge normalizes a charge of the given positive amount, the fold value is negated
func Charge(transactionID uuid.UUID, amount decimal.Decimal) TransactionCommand {
	return TransactionCommand{
		kind:          chargeTransaction,
		transactionID: transactionID,
		value:         amount.Neg(),
	}
}

// PayOff normalizes a pay-off of the given positive amount
func PayOff(transactionID uuid.UUID, amount decimal.Decimal) TransactionCommand {
	return TransactionCommand{
		kind:          payOffTransaction,
		transactionID: transactionID,
		value:         amount,
	}
}
