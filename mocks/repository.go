package mocks

import (
	"context"

	"github.com/cardkit/debitcard/card"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Repository is a mock type for the card.Repository type
type Repository struct {
	mock.Mock
}

// GetByID provides a mock function with given fields: ctx, cardID
func (_m *Repository) GetByID(ctx context.Context, cardID uuid.UUID) (card.DebitCard, error) {
	ret := _m.Called(ctx, cardID)

	var r0 card.DebitCard
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) card.DebitCard); ok {
		r0 = rf(ctx, cardID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(card.DebitCard)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, cardID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetSummaryByID provides a mock function with given fields: ctx, cardID
func (_m *Repository) GetSummaryByID(ctx context.Context, cardID uuid.UUID) (card.Summary, error) {
	ret := _m.Called(ctx, cardID)

	var r0 card.Summary
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) card.Summary); ok {
		r0 = rf(ctx, cardID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(card.Summary)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, cardID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Save provides a mock function with given fields: ctx, c
func (_m *Repository) Save(ctx context.Context, c card.DebitCard) error {
	ret := _m.Called(ctx, c)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, card.DebitCard) error); ok {
		r0 = rf(ctx, c)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// EventPublisher is a mock type for the card.EventPublisher type
type EventPublisher struct {
	mock.Mock
}

// Publish provides a mock function with given fields: ctx, cardID, events
func (_m *EventPublisher) Publish(ctx context.Context, cardID uuid.UUID, events []card.Event) error {
	ret := _m.Called(ctx, cardID, events)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, []card.Event) error); ok {
		r0 = rf(ctx, cardID, events)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
