package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"veridoc/internal/model"
)

// InteractionPublisher hands answered questions to the persistence queue.
// A channel is opened lazily on first publish and reused until it breaks,
// then reopened on the next call.
type InteractionPublisher struct {
	conn      *amqp.Connection
	queueName string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewInteractionPublisher(conn *amqp.Connection, queueName string) *InteractionPublisher {
	return &InteractionPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *InteractionPublisher) Publish(ctx context.Context, interaction model.Interaction) error {
	payload, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("marshal interaction payload failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		p.ch = nil
		_ = ch.Close()
		return fmt.Errorf("publish interaction failed: %w", err)
	}
	return nil
}

// channel returns the cached channel, opening and preparing a new one if
// needed. Caller holds p.mu.
func (p *InteractionPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue failed: %w", err)
	}
	p.ch = ch
	return ch, nil
}
