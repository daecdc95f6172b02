package queue

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

// RabbitMQQueue is the alternative event bus for deployments that already run
// RabbitMQ. Each subject maps to a fanout exchange; subscribers get an
// exclusive auto-deleted queue, so monitor clients that go away leave nothing
// behind on the broker.
type RabbitMQQueue struct {
	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	url     string
	log     *zap.Logger
}

// NewRabbitMQQueue dials the broker and keeps the connection alive in the
// background, redialing on close notifications.
func NewRabbitMQQueue(url string, log *zap.Logger) (MessageQueue, error) {
	conn, ch, err := dialAMQP(url)
	if err != nil {
		return nil, err
	}

	q := &RabbitMQQueue{
		conn:    conn,
		channel: ch,
		url:     url,
		log:     log,
	}
	go q.redialLoop()

	log.Info("Connected to RabbitMQ event bus", zap.String("url", url))
	return q, nil
}

func dialAMQP(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	return conn, ch, nil
}

// Publish declares the subject's fanout exchange and sends the event. Events
// are JSON and carry a timestamp for consumers that order turn feeds.
func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	if err := q.declareExchange(subject); err != nil {
		return err
	}

	err := q.channel.Publish(subject, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe binds an exclusive queue to the subject's exchange and feeds
// deliveries to handler. Handler errors are logged, not redelivered.
func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	if err := q.declareExchange(subject); err != nil {
		return err
	}

	sub, err := q.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare subscriber queue: %w", err)
	}
	if err := q.channel.QueueBind(sub.Name, "", subject, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind %s: %w", subject, err)
	}

	deliveries, err := q.channel.Consume(sub.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume %s: %w", subject, err)
	}

	go func() {
		for d := range deliveries {
			if err := handler(d.Body); err != nil {
				q.log.Error("Event handler failed",
					zap.String("subject", subject),
					zap.Error(err),
				)
			}
		}
	}()

	q.log.Info("Subscribed to event subject", zap.String("subject", subject))
	return nil
}

func (q *RabbitMQQueue) declareExchange(subject string) error {
	if err := q.channel.ExchangeDeclare(subject, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange %s: %w", subject, err)
	}
	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

func (q *RabbitMQQueue) redialLoop() {
	for {
		reason, ok := <-q.conn.NotifyClose(make(chan *amqp.Error))
		if !ok {
			// Clean shutdown via Close.
			return
		}
		q.log.Warn("RabbitMQ connection lost", zap.String("reason", reason.Reason))

		for {
			time.Sleep(reconnectDelay)

			conn, ch, err := dialAMQP(q.url)
			if err != nil {
				q.log.Error("RabbitMQ redial failed", zap.Error(err))
				continue
			}

			q.mu.Lock()
			q.conn = conn
			q.channel = ch
			q.mu.Unlock()

			q.log.Info("RabbitMQ reconnected")
			break
		}
	}
}
