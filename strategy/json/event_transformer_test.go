package json_test

import (
	"testing"

	"github.com/cardkit/debitcard/card"
	strategyJSON "github.com/cardkit/debitcard/strategy/json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTransformer(t *testing.T) {
	transactionID := uuid.New()

	testCases := []struct {
		expectedName string
		event        card.Event
	}{
		{
			card.LimitAssignedName,
			card.LimitAssigned{Limit: decimal.RequireFromString("100")},
		},
		{
			card.TransactionAcceptedName,
			card.TransactionAccepted{TransactionID: transactionID, Value: decimal.RequireFromString("-40.5")},
		},
		{
			card.TransactionRejectedName,
			card.TransactionRejected{TransactionID: transactionID, Value: decimal.RequireFromString("-70.25")},
		},
		{
			card.CardBlockedName,
			card.CardBlocked{},
		},
		{
			card.CardBlockedRejectedName,
			card.CardBlockedRejected{},
		},
		{
			card.CardUnblockedName,
			card.CardUnblocked{},
		},
	}

	transformer := strategyJSON.NewEventTransformer()

	for _, testCase := range testCases {
		t.Run(testCase.expectedName, func(t *testing.T) {
			eventName, payload, err := transformer.ConvertEvent(testCase.event)
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedName, eventName)

			restored, err := transformer.CreateEvent(eventName, payload)
			require.NoError(t, err)
			assert.Equal(t, testCase.event, restored)
		})
	}

	t.Run("an unknown event type is refused", func(t *testing.T) {
		event, err := transformer.CreateEvent("AccountCredited", []byte(`{}`))

		assert.Equal(t, strategyJSON.ErrUnknownEventType, err)
		assert.Nil(t, event)
	})

	t.Run("a malformed payload is refused", func(t *testing.T) {
		event, err := transformer.CreateEvent(card.LimitAssignedName, []byte(`{"limit":`))

		assert.Equal(t, strategyJSON.ErrEventCannotBeDeserialized, err)
		assert.Nil(t, event)
	})
}
