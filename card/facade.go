package card

import (
	"context"

	"github.com/cardkit/debitcard"
	"github.com/google/uuid"
)

// ErrRepositoryRequired occurs when a nil repository is provided
const ErrRepositoryRequired = debitcard.Error("debitcard: a Repository may not be nil")

type (
	// Facade orchestrates a single command execution: it loads the card,
	// invokes the transition, persists the pending changes and translates the
	// appended event into a typed OperationResult.
	//
	// Domain outcomes, including rejections, are reported through the
	// OperationResult. The error return is reserved for infrastructure
	// failures such as ErrVersionConflict or a broken store.
	Facade struct {
		repository Repository
		publisher  EventPublisher
		logger     debitcard.Logger
		metrics    debitcard.Metrics
	}

	// FacadeOption configures optional facade collaborators
	FacadeOption func(*Facade)
)

// WithLogger sets the logger used by the facade
func WithLogger(logger debitcard.Logger) FacadeOption {
	return func(f *Facade) {
		f.logger = logger
	}
}

// WithMetrics sets the metrics instance used by the facade
func WithMetrics(metrics debitcard.Metrics) FacadeOption {
	return func(f *Facade) {
		f.metrics = metrics
	}
}

// WithEventPublisher sets the publisher that receives the persisted events of
// every successful save
func WithEventPublisher(publisher EventPublisher) FacadeOption {
	return func(f *Facade) {
		f.publisher = publisher
	}
}

// NewFacade returns a Facade for the given repository
func NewFacade(repository Repository, options ...FacadeOption) (*Facade, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	facade := &Facade{
		repository: repository,
		publisher:  NopPublisher,
		logger:     debitcard.NopLogger,
		metrics:    debitcard.NopMetrics,
	}

	for _, option := range options {
		option(facade)
	}

	return facade, nil
}

// CreateCard creates and persists a brand-new debit card and returns its id
func (f *Facade) CreateCard(ctx context.Context) (uuid.UUID, error) {
	newCard := New()

	if err := f.repository.Save(ctx, newCard); err != nil {
		return uuid.Nil, err
	}

	f.logger.Info("debit card created", func(e debitcard.LoggerEntry) {
		e.String("card_id", newCard.ID().String())
	})

	return newCard.ID(), nil
}

// Summary returns the read-only view of the card, or ErrCardNotFound
func (f *Facade) Summary(ctx context.Context, cardID uuid.UUID) (Summary, error) {
	return f.repository.GetSummaryByID(ctx, cardID)
}

// AssignLimit assigns the spending limit of a card.
// Assigning a limit twice fails with ErrLimitAlreadyAssigned.
func (f *Facade) AssignLimit(ctx context.Context, command AssignLimitCommand) (OperationResult, error) {
	return f.execute(ctx, command, outcome{failure: ErrLimitAlreadyAssigned, noop: ErrLimitAlreadyAssigned},
		func(current DebitCard) DebitCard {
			return current.AssignLimit(command.Limit)
		},
	)
}

// ChargeCard charges an amount against a card
func (f *Facade) ChargeCard(ctx context.Context, command ChargeCardCommand) (OperationResult, error) {
	return f.execute(ctx, command, outcome{failure: ErrCannotCharge},
		func(current DebitCard) DebitCard {
			return current.ApplyTransaction(Charge(command.TransactionID, command.Amount))
		},
	)
}

// PayOffCard pays an amount back onto a card
func (f *Facade) PayOffCard(ctx context.Context, command PayOffCardCommand) (OperationResult, error) {
	return f.execute(ctx, command, outcome{failure: ErrCannotPayOff},
		func(current DebitCard) DebitCard {
			return current.ApplyTransaction(PayOff(command.TransactionID, command.Amount))
		},
	)
}

// BlockCard blocks a card.
// Blocking an already blocked card fails with ErrCannotBlockCard and the
// rejection is persisted as part of the card history.
func (f *Facade) BlockCard(ctx context.Context, command BlockCardCommand) (OperationResult, error) {
	return f.execute(ctx, command, outcome{failure: ErrCannotBlockCard},
		func(current DebitCard) DebitCard {
			return current.Block()
		},
	)
}

// UnblockCard unblocks a card. Unblocking an unblocked card succeeds without
// appending an event.
func (f *Facade) UnblockCard(ctx context.Context, command UnblockCardCommand) (OperationResult, error) {
	return f.execute(ctx, command, outcome{failure: ErrCannotBlockCard},
		func(current DebitCard) DebitCard {
			return current.Unblock()
		},
	)
}

// outcome fixes how the appended events of a transition map onto a result.
// failure is returned when the single appended event is a FailureEvent,
// noop when the transition appended no event at all. A nil noop means the
// empty transition is reported as success.
type outcome struct {
	failure error
	noop    error
}

func (f *Facade) execute(
	ctx context.Context,
	command Command,
	mapping outcome,
	transition func(DebitCard) DebitCard,
) (OperationResult, error) {
	f.metrics.ReceivedCommand(command.CommandName())

	current, err := f.repository.GetByID(ctx, command.AggregateID())
	if err == ErrCardNotFound {
		f.metrics.FinishCommand(command.CommandName(), false)
		return Failed(command, ErrCardNotFound), nil
	}
	if err != nil {
		return OperationResult{}, err
	}

	changed := transition(current)

	if err := f.repository.Save(ctx, changed); err != nil {
		if err == ErrVersionConflict {
			f.metrics.VersionConflict(command.CommandName())
		}
		return OperationResult{}, err
	}

	f.publish(ctx, command.AggregateID(), changed.PendingChanges())

	result := f.resultOf(command, mapping, changed.PendingChanges())
	f.metrics.FinishCommand(command.CommandName(), result.IsSuccess())

	f.logger.Debug("command handled", func(e debitcard.LoggerEntry) {
		e.String("command", command.CommandName())
		e.String("card_id", command.AggregateID().String())
		if !result.IsSuccess() {
			e.Error(result.Err())
		}
	})

	return result, nil
}

// resultOf inspects the events appended by the transition. Every transition
// appends one event whose capability class decides the result, or none for
// the no-op cases.
func (f *Facade) resultOf(command Command, mapping outcome, changes []Event) OperationResult {
	if len(changes) == 0 {
		if mapping.noop != nil {
			return Failed(command, mapping.noop)
		}
		return Success(command)
	}

	if _, rejected := changes[len(changes)-1].(FailureEvent); rejected {
		return Failed(command, mapping.failure)
	}

	return Success(command)
}

func (f *Facade) publish(ctx context.Context, cardID uuid.UUID, events []Event) {
	if len(events) == 0 {
		return
	}

	if err := f.publisher.Publish(ctx, cardID, events); err != nil {
		f.logger.Warn("failed to publish card events", func(e debitcard.LoggerEntry) {
			e.String("card_id", cardID.String())
			e.Int("events", len(events))
			e.Error(err)
		})
	}
}
