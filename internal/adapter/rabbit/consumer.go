package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/Temutjin2k/dispatch-engine/pkg/rabbit"
	amqp "github.com/rabbitmq/amqp091-go"
)

const resubscribeDelay = 2 * time.Second

// Consumer reads dispatch events from the worker queues.
type Consumer struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewConsumer(client *rabbit.RabbitMQ, l logger.Logger) *Consumer {
	return &Consumer{client: client, l: l}
}

// Handler processes one decoded event. Handlers own their failures: they log or
// record them, so every decoded delivery is acknowledged.
type Handler[T any] func(ctx context.Context, evt T)

// Consume delivers the messages of queue to fn until ctx is done, resubscribing
// after connection loss. Messages that cannot be decoded are dropped.
func Consume[T any](ctx context.Context, c *Consumer, queue string, fn Handler[T]) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume")

	return c.subscribe(ctx, queue, func(ch *amqp.Channel) (string, error) {
		return queue, nil
	}, func(ctx context.Context, msg amqp.Delivery) {
		handle(ctx, c.l, queue, fn, msg)
	})
}

// ConsumeBroadcast binds a private, auto-deleted queue to a fanout exchange so
// every instance gets its own copy of each message.
func ConsumeBroadcast[T any](ctx context.Context, c *Consumer, exchange string, fn Handler[T]) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_broadcast")

	return c.subscribe(ctx, exchange, func(ch *amqp.Channel) (string, error) {
		q, err := ch.QueueDeclare("", false, true, true, false, nil)
		if err != nil {
			return "", fmt.Errorf("declare queue: %w", err)
		}
		if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
			return "", fmt.Errorf("bind queue: %w", err)
		}
		return q.Name, nil
	}, func(ctx context.Context, msg amqp.Delivery) {
		handle(ctx, c.l, exchange, fn, msg)
	})
}

func (c *Consumer) subscribe(ctx context.Context, name string, prepare func(ch *amqp.Channel) (string, error), deliver func(ctx context.Context, msg amqp.Delivery)) error {
	for {
		if ctx.Err() != nil {
			c.l.Debug(ctx, "consumer stopped by context", "source", name)
			return nil
		}

		ch, err := c.client.Channel(ctx)
		if err != nil {
			c.l.Error(ctx, "ensure connection failed", err, "source", name)
			sleepCtx(ctx, resubscribeDelay)
			continue
		}

		queue, err := prepare(ch)
		if err != nil {
			c.l.Error(ctx, "prepare queue failed", err, "source", name)
			sleepCtx(ctx, resubscribeDelay)
			continue
		}

		msgs, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
		if err != nil {
			c.l.Error(ctx, "consume failed", err, "queue", queue)
			sleepCtx(ctx, resubscribeDelay)
			continue
		}

		c.l.Info(ctx, "start consuming", "queue", queue)

		if stopped := c.dispatch(ctx, queue, msgs, deliver); stopped {
			return nil
		}
	}
}

// dispatch hands every delivery to its own goroutine until ctx is done or msgs
// is closed. It returns only after all started handlers have finished, and
// reports true when it stopped because of ctx.
func (c *Consumer) dispatch(ctx context.Context, queue string, msgs <-chan amqp.Delivery, deliver func(ctx context.Context, msg amqp.Delivery)) bool {
	var inflight sync.WaitGroup
	defer inflight.Wait()

	// handlers finish their work after shutdown starts
	hctx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			c.l.Info(ctx, "consumer shutting down", "queue", queue)
			return true

		case msg, ok := <-msgs:
			if !ok {
				c.l.Warn(ctx, "message channel closed, resubscribing", "queue", queue)
				return false
			}
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				deliver(hctx, msg)
			}()
		}
	}
}

func handle[T any](ctx context.Context, l logger.Logger, source string, fn Handler[T], msg amqp.Delivery) {
	if msg.CorrelationId != "" {
		ctx = wrap.WithRequestID(ctx, msg.CorrelationId)
	}

	var evt T
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		metrics.RecordRabbitMQConsume(source, err)
		l.Error(wrap.WithAction(ctx, types.ActionExternalServiceFailed), "decode failed, dropping message", err, "source", source)
		_ = msg.Nack(false, false)
		return
	}

	fn(ctx, evt)
	metrics.RecordRabbitMQConsume(source, nil)

	if err := msg.Ack(false); err != nil {
		l.Warn(ctx, "ack failed", "source", source, "error", err.Error())
	}
}
