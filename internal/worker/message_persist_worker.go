package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"mediaitor/internal/model"
	"mediaitor/internal/platform/rabbitmq"
)

type MessageWriter interface {
	Create(ctx context.Context, message *model.Message) error
}

// HistoryInvalidator drops a session's cached history once a message lands.
type HistoryInvalidator interface {
	Invalidate(ctx context.Context, sessionID string) error
}

// MessagePersistWorker drains the persistence queue into the message log.
type MessagePersistWorker struct {
	conn      *amqp.Connection
	repo      MessageWriter
	history   HistoryInvalidator
	queueName string
	log       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMessagePersistWorker(conn *amqp.Connection, repo MessageWriter, history HistoryInvalidator, queueName string, log *zap.Logger) *MessagePersistWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessagePersistWorker{
		conn:      conn,
		repo:      repo,
		history:   history,
		queueName: queueName,
		log:       log.Named("message_worker"),
	}
}

func (w *MessagePersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("delivery channel closed")
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.log.Error("persist message failed", zap.String("message_id", d.MessageId), zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	w.log.Info("message worker started", zap.String("queue", w.queueName))
	return nil
}

// handle decodes one delivery body and stores it. Storing a message id twice
// is a no-op, so redelivery is safe. After a store the session's cached
// history is dropped, since a reader may have refilled it while the message
// was in flight.
func (w *MessagePersistWorker) handle(ctx context.Context, body []byte) error {
	var msg model.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode message failed: %w", err)
	}
	if msg.ID == "" || msg.SessionID == "" {
		return fmt.Errorf("decode message failed: missing id or session id")
	}
	if err := w.repo.Create(ctx, &msg); err != nil {
		return err
	}
	if w.history != nil {
		if err := w.history.Invalidate(ctx, msg.SessionID); err != nil {
			w.log.Warn("invalidate history cache failed", zap.String("session_id", msg.SessionID), zap.Error(err))
		}
	}
	return nil
}

func (w *MessagePersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
