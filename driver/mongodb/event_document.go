package mongodb

import (
	"github.com/cardkit/debitcard"
	"github.com/cardkit/debitcard/card"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// ErrUnknownEventDocument occurs when a stored event type is not part of the event set
	ErrUnknownEventDocument = debitcard.Error("debitcard: unknown stored event type")
	// ErrMalformedEventDocument occurs when a stored event payload misses a field or carries a wrong type
	ErrMalformedEventDocument = debitcard.Error("debitcard: malformed stored event payload")
)

// eventDocument is the persisted `{type, payload}` form of a card event.
// Decimal values are stored as Decimal128 so the database keeps them exact.
type eventDocument struct {
	Type    string `bson:"type"`
	Payload bson.M `bson:"payload,omitempty"`
}

func toEventDocument(event card.Event) (eventDocument, error) {
	switch e := event.(type) {
	case card.LimitAssigned:
		limit, err := toDecimal128(e.Limit)
		if err != nil {
			return eventDocument{}, err
		}

		return eventDocument{
			Type:    e.EventName(),
			Payload: bson.M{"limit": limit},
		}, nil
	case card.TransactionAccepted:
		return transactionDocument(e.EventName(), e.TransactionID, e.Value)
	case card.TransactionRejected:
		return transactionDocument(e.EventName(), e.TransactionID, e.Value)
	case card.CardBlocked, card.CardBlockedRejected, card.CardUnblocked:
		return eventDocument{Type: event.EventName()}, nil
	}

	return eventDocument{}, ErrUnknownEventDocument
}

func (d eventDocument) toEvent() (card.Event, error) {
	switch d.Type {
	case card.LimitAssignedName:
		limit, err := d.decimalField("limit")
		if err != nil {
			return nil, err
		}

		return card.LimitAssigned{Limit: limit}, nil
	case card.TransactionAcceptedName:
		transactionID, value, err := d.transactionFields()
		if err != nil {
			return nil, err
		}

		return card.TransactionAccepted{TransactionID: transactionID, Value: value}, nil
	case card.TransactionRejectedName:
		transactionID, value, err := d.transactionFields()
		if err != nil {
			return nil, err
		}

		return card.TransactionRejected{TransactionID: transactionID, Value: value}, nil
	case card.CardBlockedName:
		return card.CardBlocked{}, nil
	case card.CardBlockedRejectedName:
		return card.CardBlockedRejected{}, nil
	case card.CardUnblockedName:
		return card.CardUnblocked{}, nil
	}

	return nil, ErrUnknownEventDocument
}

func transactionDocument(eventName string, transactionID uuid.UUID, value decimal.Decimal) (eventDocument, error) {
	storedValue, err := toDecimal128(value)
	if err != nil {
		return eventDocument{}, err
	}

	return eventDocument{
		Type: eventName,
		Payload: bson.M{
			"transaction_id": transactionID.String(),
			"value":          storedValue,
		},
	}, nil
}

func (d eventDocument) transactionFields() (uuid.UUID, decimal.Decimal, error) {
	rawID, ok := d.Payload["transaction_id"].(string)
	if !ok {
		return uuid.Nil, decimal.Zero, ErrMalformedEventDocument
	}

	transactionID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, decimal.Zero, ErrMalformedEventDocument
	}

	value, err := d.decimalField("value")
	if err != nil {
		return uuid.Nil, decimal.Zero, err
	}

	return transactionID, value, nil
}

func (d eventDocument) decimalField(field string) (decimal.Decimal, error) {
	stored, ok := d.Payload[field].(primitive.Decimal128)
	if !ok {
		return decimal.Zero, ErrMalformedEventDocument
	}

	value, err := decimal.NewFromString(stored.String())
	if err != nil {
		return decimal.Zero, ErrMalformedEventDocument
	}

	return value, nil
}

func toDecimal128(value decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(value.String())
}
