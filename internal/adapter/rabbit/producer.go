package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/Temutjin2k/dispatch-engine/pkg/rabbit"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publishRetries = 3
	publishBackoff = 500 * time.Millisecond
)

// Producer publishes dispatch events, notifications and live tracking updates.
type Producer struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewProducer(client *rabbit.RabbitMQ, l logger.Logger) *Producer {
	return &Producer{client: client, l: l}
}

func (p *Producer) PublishReservationCreated(ctx context.Context, evt models.ReservationCreatedEvent) error {
	return p.publish(ctx, types.DispatchExchange, types.KeyReservationCreated, evt.Reservation.ID, evt)
}

func (p *Producer) PublishReservationUpdated(ctx context.Context, evt models.ReservationUpdatedEvent) error {
	return p.publish(ctx, types.DispatchExchange, types.KeyReservationUpdated, evt.After.ID, evt)
}

func (p *Producer) PublishDriverPosition(ctx context.Context, evt models.DriverPositionEvent) error {
	return p.publish(ctx, types.DispatchExchange, types.KeyDriverPosition, evt.DriverID, evt)
}

func (p *Producer) PublishPositionCreated(ctx context.Context, evt models.PositionCreatedEvent) error {
	return p.publish(ctx, types.DispatchExchange, types.KeyPositionCreated, evt.Sample.ID, evt)
}

// PublishNotification routes admin notes to notification.admin and driver notes
// to notification.driver.<driver_id>.
func (p *Producer) PublishNotification(ctx context.Context, n models.Notification) error {
	return p.publish(ctx, types.NotificationExchange, NotificationKey(n), n.ID, n)
}

// PublishTracking fans a live update out to every API instance.
func (p *Producer) PublishTracking(ctx context.Context, u models.TrackingUpdate) error {
	return p.publish(ctx, types.TrackingExchange, "", u.DriverID, u)
}

func NotificationKey(n models.Notification) string {
	if n.Recipient == types.RecipientDriver && n.DriverID != "" {
		return fmt.Sprintf("notification.%s.%s", n.Recipient, n.DriverID)
	}
	return fmt.Sprintf("notification.%s", n.Recipient)
}

func (p *Producer) publish(ctx context.Context, exchange, key, correlationID string, msg any) (err error) {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish")
	defer func() { metrics.RecordRabbitMQPublish(exchange, key, err) }()

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(ctx, publishRetries, publishBackoff, func() error {
		ch, err := p.client.Channel(ctx)
		if err != nil {
			return err
		}
		return ch.PublishWithContext(
			ctx,
			exchange,
			key,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				DeliveryMode:  amqp.Persistent,
				CorrelationId: correlationID,
				Body:          body,
				Timestamp:     time.Now().UTC(),
			},
		)
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish to %s/%s: %w", exchange, key, err))
	}
	return nil
}
