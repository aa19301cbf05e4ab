package amqp

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/cardkit/debitcard"
	"github.com/cardkit/debitcard/card"
	strategyJSON "github.com/cardkit/debitcard/strategy/json"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Ensure that we satisfy the card.EventPublisher interface
var _ card.EventPublisher = &EventPublisher{}

// eventMessage is the queue representation of a persisted card event
type eventMessage struct {
	CardID  string          `json:"card_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventPublisher publishes persisted card events to an amqp queue
type EventPublisher struct {
	amqpDSN     string
	queue       string
	transformer strategyJSON.EventConverter
	logger      debitcard.Logger

	mux        sync.Mutex
	connection io.Closer
	channel    Channel
}

// NewEventPublisher returns an instance of EventPublisher
func NewEventPublisher(
	amqpDSN, queue string,
	transformer strategyJSON.EventConverter,
	logger debitcard.Logger,
) (*EventPublisher, error) {
	if _, err := amqp.ParseURI(amqpDSN); err != nil {
		return nil, debitcard.InvalidArgumentError("amqpDSN")
	}
	if len(queue) == 0 {
		return nil, debitcard.InvalidArgumentError("queue")
	}
	if transformer == nil {
		return nil, debitcard.InvalidArgumentError("transformer")
	}
	if logger == nil {
		logger = debitcard.NopLogger
	}

	return &EventPublisher{
		amqpDSN:     amqpDSN,
		queue:       queue,
		transformer: transformer,
		logger:      logger,
	}, nil
}

// Publish sends one message per event to the queue
func (p *EventPublisher) Publish(ctx context.Context, cardID uuid.UUID, events []card.Event) error {
	for _, event := range events {
		eventName, payload, err := p.transformer.ConvertEvent(event)
		if err != nil {
			return err
		}

		msgBody, err := json.Marshal(eventMessage{
			CardID:  cardID.String(),
			Type:    eventName,
			Payload: payload,
		})
		if err != nil {
			return err
		}

		if err := p.publishBody(msgBody); err != nil {
			return err
		}
	}

	return nil
}

func (p *EventPublisher) publishBody(msgBody []byte) error {
	for {
		channel, err := p.connect()
		if err != nil {
			return err
		}

		err = channel.Publish("", p.queue, true, false, amqp.Publishing{
			ContentType: "application/json",
			Body:        msgBody,
		})
		if err == amqp.ErrClosed || err == amqp.ErrFrame || err == amqp.ErrUnexpectedFrame {
			p.disconnect(err)
			continue
		}

		return err
	}
}

func (p *EventPublisher) connect() (Channel, error) {
	p.mux.Lock()
	defer p.mux.Unlock()

	if p.connection == nil {
		connection, channel, err := setup(p.amqpDSN, p.queue)
		if err != nil {
			return nil, err
		}

		p.connection = connection
		p.channel = channel
	}

	return p.channel, nil
}

func (p *EventPublisher) disconnect(reason error) {
	p.mux.Lock()
	defer p.mux.Unlock()

	p.logger.Warn("amqp channel closed, reconnecting", func(e debitcard.LoggerEntry) {
		e.Error(reason)
	})

	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			p.logger.Error("failed to close amqp connection", func(e debitcard.LoggerEntry) {
				e.Error(err)
			})
		}
	}

	p.connection = nil
	p.channel = nil
}
