package card

import (
	"github.com/cardkit/debitcard"
)

const (
	// ErrCardNotFound occurs when the referenced card id has no stored history
	ErrCardNotFound = debitcard.Error("debitcard: card not found")
	// ErrLimitAlreadyAssigned occurs when a limit is assigned to a card that already has one
	ErrLimitAlreadyAssigned = debitcard.Error("debitcard: limit already assigned")
	// ErrCannotCharge occurs when a charge is refused by the card
	ErrCannotCharge = debitcard.Error("debitcard: cannot charge card")
	// ErrCannotBlockCard occurs when a block is requested for an already blocked card
	ErrCannotBlockCard = debitcard.Error("debitcard: cannot block card")
	// ErrCannotPayOff occurs when a pay-off is refused by the card
	ErrCannotPayOff = debitcard.Error("debitcard: cannot pay off card")
)

// OperationResult is the typed outcome of a card mutating command.
// It always carries the original command so the caller can correlate a
// rejection with the request that caused it.
type OperationResult struct {
	command Command
	err     error
}

// Success returns a successful OperationResult for the command
func Success(command Command) OperationResult {
	return OperationResult{command: command}
}

// Failed returns a failed OperationResult carrying the command and the domain error
func Failed(command Command, err error) OperationResult {
	return OperationResult{command: command, err: err}
}

// IsSuccess reports whether the command was accepted
func (r OperationResult) IsSuccess() bool {
	return r.err == nil
}

// Command returns the original command
func (r OperationResult) Command() Command {
	return r.command
}

// Err returns the domain error of a failed result, nil on success
func (r OperationResult) Err() error {
	return r.err
}
