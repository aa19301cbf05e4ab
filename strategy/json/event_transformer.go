// Package json transforms debit card events from and to their persisted
// `{type, payload}` representation.
package json

import (
	"github.com/cardkit/debitcard"
	"github.com/cardkit/debitcard/card"
	"github.com/cardkit/debitcard/strategy/json/internal"
)

const (
	// ErrEventCannotBeSerialized occurs when an event cannot be serialized
	ErrEventCannotBeSerialized = debitcard.Error("debitcard: event cannot be serialized")
	// ErrEventCannotBeDeserialized occurs when a stored payload cannot be deserialized
	ErrEventCannotBeDeserialized = debitcard.Error("debitcard: event cannot be deserialized")
	// ErrUnknownEventType occurs when a stored event type is not part of the event set
	ErrUnknownEventType = debitcard.Error("debitcard: unknown event type")
)

// Ensure that EventTransformer satisfies the EventConverter interface
var _ EventConverter = &EventTransformer{}

type (
	// EventConverter converts events from and to their wire representation
	EventConverter interface {
		// ConvertEvent returns the type name and serialized payload of the event
		ConvertEvent(event card.Event) (string, []byte, error)
		// CreateEvent reconstructs an event from its type name and payload
		CreateEvent(eventName string, payload []byte) (card.Event, error)
	}

	// EventTransformer converts the closed debit card event set from and to
	// JSON payloads. The six variants are fixed, there is no runtime payload
	// registration.
	EventTransformer struct {
		factories map[string]eventFactory
	}

	eventFactory func(payload []byte) (card.Event, error)
)

// NewEventTransformer returns an EventTransformer covering the full event set
func NewEventTransformer() *EventTransformer {
	return &EventTransformer{
		factories: map[string]eventFactory{
			card.LimitAssignedName: func(payload []byte) (card.Event, error) {
				var event card.LimitAssigned
				return event, internal.UnmarshalJSON(payload, &event)
			},
			card.TransactionAcceptedName: func(payload []byte) (card.Event, error) {
				var event card.TransactionAccepted
				return event, internal.UnmarshalJSON(payload, &event)
			},
			card.TransactionRejectedName: func(payload []byte) (card.Event, error) {
				var event card.TransactionRejected
				return event, internal.UnmarshalJSON(payload, &event)
			},
			card.CardBlockedName: func(payload []byte) (card.Event, error) {
				var event card.CardBlocked
				return event, internal.UnmarshalJSON(payload, &event)
			},
			card.CardBlockedRejectedName: func(payload []byte) (card.Event, error) {
				var event card.CardBlockedRejected
				return event, internal.UnmarshalJSON(payload, &event)
			},
			card.CardUnblockedName: func(payload []byte) (card.Event, error) {
				var event card.CardUnblocked
				return event, internal.UnmarshalJSON(payload, &event)
			},
		},
	}
}

// ConvertEvent marshals the event into JSON returning its type name and the serialized payload
func (t *EventTransformer) ConvertEvent(event card.Event) (string, []byte, error) {
	payload, err := internal.MarshalJSON(event)
	if err != nil {
		return "", nil, ErrEventCannotBeSerialized
	}

	return event.EventName(), payload, nil
}

// CreateEvent reconstructs the event stored under the given type name
func (t *EventTransformer) CreateEvent(eventName string, payload []byte) (card.Event, error) {
	factory, known := t.factories[eventName]
	if !known {
		return nil, ErrUnknownEventType
	}

	event, err := factory(payload)
	if err != nil {
		return nil, ErrEventCannotBeDeserialized
	}

	return event, nil
}
