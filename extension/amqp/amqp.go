package amqp

import (
	"io"

	"github.com/streadway/amqp"
)

// setup returns a connection and channel to be used for the queue setup
func setup(url, queue string) (io.Closer, Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, nil, err
	}

	return conn, ch, nil
}

// Channel represents an amqp channel the publisher writes to
type Channel interface {
	Publish(exchange, queue string, mandatory, immediate bool, msg amqp.Publishing) error
}
