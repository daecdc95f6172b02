package queue

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSQueue is the default event bus. Turn and booking events are small JSON
// payloads, so plain core NATS subjects are enough; nothing here needs
// JetStream durability.
type NATSQueue struct {
	conn *nats.Conn
	log  *zap.Logger
}

// NewNATSQueue connects to the NATS server at url. Reconnects are handled by
// the client itself; events published while disconnected are dropped, which is
// acceptable for monitor traffic.
func NewNATSQueue(url string, log *zap.Logger) (MessageQueue, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}

	log.Info("Connected to NATS event bus", zap.String("url", url))
	return &NATSQueue{conn: conn, log: log}, nil
}

func (q *NATSQueue) Publish(subject string, data []byte) error {
	return q.conn.Publish(subject, data)
}

// Subscribe registers handler for subject. Handler errors are logged and the
// message is dropped; there is no redelivery for monitor events.
func (q *NATSQueue) Subscribe(subject string, handler func(data []byte) error) error {
	_, err := q.conn.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			q.log.Error("Event handler failed",
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("nats: subscribe %s: %w", subject, err)
	}
	return nil
}

func (q *NATSQueue) Close() error {
	// Drain lets in-flight turn events reach their handlers before the
	// connection goes away during shutdown.
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return err
	}
	return nil
}
