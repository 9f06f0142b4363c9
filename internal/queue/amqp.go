package queue

import (
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// AMQPQueue backs the Queue interface with RabbitMQ so dispatch can run
// in a separate worker process. One durable queue per topic.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  zerolog.Logger
}

func NewAMQPQueue(url string, log zerolog.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPQueue{conn: conn, ch: ch, log: log}, nil
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (q *AMQPQueue) Publish(topic string, payload []byte) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
}

// Subscribe consumes the topic queue with manual acks. Deliveries are
// acked whether or not the handler succeeds: a dispatch job must not be
// replayed, and handler failures are already recorded on the campaign.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}
	msgs, err := q.ch.Consume(
		queue.Name,
		"",
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				q.log.Error().Err(err).Str("topic", topic).Msg("job handler failed")
			}
			if err := d.Ack(false); err != nil {
				q.log.Error().Err(err).Str("topic", topic).Msg("ack failed")
			}
		}
	}()
	return nil
}

func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)
var _ Queue = (*InMemoryQueue)(nil)
