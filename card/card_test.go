package card_test

import (
	"testing"

	"github.com/cardkit/debitcard/card"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	require.NoError(t, err)

	return d
}

func TestNewWithID(t *testing.T) {
	cardID := uuid.New()
	c := card.NewWithID(cardID)

	asserts := assert.New(t)
	asserts.Equal(cardID, c.ID())
	asserts.Equal(int64(0), c.Version())
	asserts.Empty(c.PendingChanges())

	summary := c.Summary()
	asserts.Equal(cardID, summary.CardID)
	asserts.True(summary.Balance.IsZero(), "Expected a zero balance")
	asserts.Nil(summary.Limit, "Expected no assigned limit")
	asserts.False(summary.Blocked)
}

func TestDebitCard_AssignLimit(t *testing.T) {
	t.Run("assigns the limit once", func(t *testing.T) {
		limit := dec(t, "100.00")
		c := card.New().AssignLimit(limit)

		asserts := assert.New(t)
		require.Len(t, c.PendingChanges(), 1)
		asserts.Equal(card.LimitAssigned{Limit: limit}, c.PendingChanges()[0])

		summary := c.Summary()
		require.NotNil(t, summary.Limit)
		asserts.True(summary.Limit.Equal(limit))
		asserts.True(summary.Balance.IsZero())
	})

	t.Run("a second assignment does not append an event", func(t *testing.T) {
		c := card.New().AssignLimit(dec(t, "100.00"))
		c = c.FlushChanges()

		c = c.AssignLimit(dec(t, "500.00"))

		asserts := assert.New(t)
		asserts.Empty(c.PendingChanges(), "Expected no new pending event")
		asserts.True(c.Summary().Limit.Equal(dec(t, "100.00")), "Expected the original limit to stay")
	})
}

func TestDebitCard_ApplyTransaction(t *testing.T) {
	type transactionTestCase struct {
		title           string
		prepare         func(t *testing.T, c card.DebitCard) card.DebitCard
		transaction     func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand
		expectAccepted  bool
		expectedBalance string
	}

	testCases := []transactionTestCase{
		{
			"charge within the limit is accepted",
			func(t *testing.T, c card.DebitCard) card.DebitCard {
				return c.AssignLimit(dec(t, "100.00"))
			},
			func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand {
				return card.Charge(transactionID, dec(t, "40.00"))
			},
			true,
			"-40.00",
		},
		{
			"charge up to the exact limit is accepted",
			func(t *testing.T, c card.DebitCard) card.DebitCard {
				return c.AssignLimit(dec(t, "100.00"))
			},
			func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand {
				return card.Charge(transactionID, dec(t, "100.00"))
			},
			true,
			"-100.00",
		},
		{
			"charge beyond the limit is rejected",
			func(t *testing.T, c card.DebitCard) card.DebitCard {
				return c.AssignLimit(dec(t, "100.00"))
			},
			func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand {
				return card.Charge(transactionID, dec(t, "100.01"))
			},
			false,
			"0",
		},
		{
			"charge without an assigned limit is rejected",
			func(t *testing.T, c card.DebitCard) card.DebitCard {
				return c
			},
			func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand {
				return card.Charge(transactionID, dec(t, "0.01"))
			},
			false,
			"0",
		},
		{
			"charge on a blocked card is rejected",
			func(t *testing.T, c card.DebitCard) card.DebitCard {
				return c.AssignLimit(dec(t, "100.00")).Block()
			},
			func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand {
				return card.Charge(transactionID, dec(t, "1.00"))
			},
			false,
			"0",
		},
		{
			"pay-off is accepted",
			func(t *testing.T, c card.DebitCard) card.DebitCard {
				return c.AssignLimit(dec(t, "100.00")).
					ApplyTransaction(card.Charge(uuid.New(), dec(t, "40.00")))
			},
			func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand {
				return card.PayOff(transactionID, dec(t, "30.00"))
			},
			true,
			"-10.00",
		},
		{
			"pay-off on a blocked card is accepted",
			func(t *testing.T, c card.DebitCard) card.DebitCard {
				return c.AssignLimit(dec(t, "100.00")).
					ApplyTransaction(card.Charge(uuid.New(), dec(t, "40.00"))).
					Block()
			},
			func(t *testing.T, transactionID uuid.UUID) card.TransactionCommand {
				return card.PayOff(transactionID, dec(t, "40.00"))
			},
			true,
			"0.00",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.title, func(t *testing.T) {
			transactionID := uuid.New()

			c := testCase.prepare(t, card.New()).FlushChanges()
			c = c.ApplyTransaction(testCase.transaction(t, transactionID))

			require.Len(t, c.PendingChanges(), 1)
			appended := c.PendingChanges()[0]

			asserts := assert.New(t)
			if testCase.expectAccepted {
				accepted, ok := appended.(card.TransactionAccepted)
				require.True(t, ok, "Expected a TransactionAccepted event, got %T", appended)
				asserts.Equal(transactionID, accepted.TransactionID)
			} else {
				rejected, ok := appended.(card.TransactionRejected)
				require.True(t, ok, "Expected a TransactionRejected event, got %T", appended)
				asserts.Equal(transactionID, rejected.TransactionID)
			}

			asserts.True(
				c.Summary().Balance.Equal(dec(t, testCase.expectedBalance)),
				"Expected balance %s, got %s", testCase.expectedBalance, c.Summary().Balance,
			)
		})
	}
}

func TestDebitCard_Block(t *testing.T) {
	t.Run("blocks an unblocked card", func(t *testing.T) {
		c := card.New().Block()

		require.Len(t, c.PendingChanges(), 1)
		assert.Equal(t, card.CardBlocked{}, c.PendingChanges()[0])
		assert.True(t, c.Summary().Blocked)
	})

	t.Run("blocking a blocked card appends a rejection", func(t *testing.T) {
		c := card.New().Block().FlushChanges()
		c = c.Block()

		require.Len(t, c.PendingChanges(), 1)
		assert.Equal(t, card.CardBlockedRejected{}, c.PendingChanges()[0])
		assert.True(t, c.Summary().Blocked, "Expected the card to stay blocked")
	})
}

func TestDebitCard_Unblock(t *testing.T) {
	t.Run("unblocks a blocked card", func(t *testing.T) {
		c := card.New().Block().FlushChanges()
		c = c.Unblock()

		require.Len(t, c.PendingChanges(), 1)
		assert.Equal(t, card.CardUnblocked{}, c.PendingChanges()[0])
		assert.False(t, c.Summary().Blocked)
	})

	t.Run("unblocking an unblocked card does not append an event", func(t *testing.T) {
		c := card.New().Unblock()

		assert.Empty(t, c.PendingChanges())
		assert.False(t, c.Summary().Blocked)
	})
}

func TestDebitCard_Lifecycle(t *testing.T) {
	asserts := assert.New(t)

	c := card.New().AssignLimit(dec(t, "100.00"))
	c = c.ApplyTransaction(card.Charge(uuid.New(), dec(t, "40.00")))
	asserts.True(c.Summary().Balance.Equal(dec(t, "-40.00")))

	c = c.ApplyTransaction(card.Charge(uuid.New(), dec(t, "70.00")))
	asserts.True(c.Summary().Balance.Equal(dec(t, "-40.00")), "Expected the over-limit charge to leave the balance")

	c = c.ApplyTransaction(card.PayOff(uuid.New(), dec(t, "30.00")))
	asserts.True(c.Summary().Balance.Equal(dec(t, "-10.00")))

	c = c.ApplyTransaction(card.Charge(uuid.New(), dec(t, "70.00")))
	asserts.True(c.Summary().Balance.Equal(dec(t, "-80.00")))

	c = c.Block()
	c = c.ApplyTransaction(card.Charge(uuid.New(), dec(t, "5.00")))
	asserts.True(c.Summary().Balance.Equal(dec(t, "-80.00")), "Expected no charges on a blocked card")

	c = c.Unblock()
	c = c.ApplyTransaction(card.Charge(uuid.New(), dec(t, "5.00")))
	asserts.True(c.Summary().Balance.Equal(dec(t, "-85.00")))

	asserts.Len(c.PendingChanges(), 9)
}

func TestFromEvents(t *testing.T) {
	t.Run("replay reproduces the state", func(t *testing.T) {
		cardID := uuid.New()
		transactionID := uuid.New()

		events := []card.Event{
			card.LimitAssigned{Limit: dec(t, "100.00")},
			card.TransactionAccepted{TransactionID: transactionID, Value: dec(t, "-40.00")},
			card.TransactionRejected{TransactionID: uuid.New(), Value: dec(t, "-70.00")},
			card.CardBlocked{},
		}

		c := card.FromEvents(cardID, 4, events)

		asserts := assert.New(t)
		asserts.Equal(cardID, c.ID())
		asserts.Equal(int64(4), c.Version())
		asserts.Empty(c.PendingChanges(), "Expected a reconstituted card to carry no pending changes")

		summary := c.Summary()
		asserts.True(summary.Balance.Equal(dec(t, "-40.00")))
		require.NotNil(t, summary.Limit)
		asserts.True(summary.Limit.Equal(dec(t, "100.00")))
		asserts.True(summary.Blocked)
	})

	t.Run("replay is deterministic", func(t *testing.T) {
		cardID := uuid.New()
		events := []card.Event{
			card.LimitAssigned{Limit: dec(t, "50.00")},
			card.TransactionAccepted{TransactionID: uuid.New(), Value: dec(t, "-25.00")},
		}

		first := card.FromEvents(cardID, 2, events)
		second := card.FromEvents(cardID, 2, events)

		assert.Equal(t, first.Summary(), second.Summary())
	})
}

func TestDebitCard_ValueSemantics(t *testing.T) {
	base := card.New().AssignLimit(dec(t, "100.00")).FlushChanges()

	charged := base.ApplyTransaction(card.Charge(uuid.New(), dec(t, "10.00")))
	blocked := base.Block()

	asserts := assert.New(t)
	asserts.Empty(base.PendingChanges(), "Expected the base card to stay untouched")
	asserts.True(base.Summary().Balance.IsZero())
	asserts.False(base.Summary().Blocked)

	require.Len(t, charged.PendingChanges(), 1)
	require.Len(t, blocked.PendingChanges(), 1)
	asserts.IsType(card.TransactionAccepted{}, charged.PendingChanges()[0])
	asserts.IsType(card.CardBlocked{}, blocked.PendingChanges()[0])
}
