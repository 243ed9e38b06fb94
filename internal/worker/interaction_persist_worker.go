package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"veridoc/internal/model"
	"veridoc/internal/repository"
)

// InteractionPersistWorker consumes answered questions from the queue and
// writes them to the interaction history table. Persistence is asynchronous
// so a slow database never delays a query response.
type InteractionPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.InteractionRepository
	queueName string

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewInteractionPersistWorker(conn *amqp.Connection, repo *repository.InteractionRepository, queueName string) *InteractionPersistWorker {
	return &InteractionPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		done:      make(chan struct{}),
	}
}

// Start declares the durable queue and begins consuming. Safe to call once;
// later calls are no-ops.
func (w *InteractionPersistWorker) Start(ctx context.Context) error {
	var startErr error
	w.startOnce.Do(func() {
		startErr = w.start(ctx)
	})
	return startErr
}

func (w *InteractionPersistWorker) start(ctx context.Context) error {
	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}
	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set worker prefetch failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go func() {
		defer close(w.done)
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handleDelivery(d)
			}
		}
	}()
	return nil
}

func (w *InteractionPersistWorker) handleDelivery(d amqp.Delivery) {
	var interaction model.Interaction
	if err := json.Unmarshal(d.Body, &interaction); err != nil {
		// Malformed payloads can never succeed, so drop them.
		log.Printf("worker: decode interaction failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := w.repo.Create(&interaction); err != nil {
		// A database hiccup gets one redelivery before the record is dropped.
		log.Printf("worker: persist interaction failed (redelivered=%v): %v", d.Redelivered, err)
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	_ = d.Ack(false)
}

// Close stops consuming and waits for the in-flight delivery to finish.
func (w *InteractionPersistWorker) Close() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}
