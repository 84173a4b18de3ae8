package firebase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"google.golang.org/api/option"
)

var ErrNoDeviceToken = errors.New("notification has no device token")

// Sender is the subset of the FCM client used for push delivery.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Pusher delivers driver notifications through Firebase Cloud Messaging.
type Pusher struct {
	client Sender
	log    logger.Logger
}

// NewMessagingClient initialises the firebase app and its messaging client.
// An empty credentials file falls back to application default credentials.
func NewMessagingClient(ctx context.Context, projectID, credentialsFile string) (*messaging.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialising firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialising firebase messaging client: %w", err)
	}
	return client, nil
}

func NewPusher(client Sender, l logger.Logger) *Pusher {
	return &Pusher{client: client, log: l}
}

func (p *Pusher) Push(ctx context.Context, n models.Notification) error {
	if n.DeviceToken == "" {
		return ErrNoDeviceToken
	}

	msg := BuildMessage(n)
	id, err := p.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending FCM to driver %s: %w", n.DriverID, err)
	}

	p.log.Debug(ctx, "push notification sent", "driver_id", n.DriverID, "message_id", id)
	return nil
}

// BuildMessage converts a notification into an FCM message. FCM data payloads
// only carry strings, so every data value is stringified.
func BuildMessage(n models.Notification) *messaging.Message {
	data := map[string]string{
		"type": string(n.Type),
	}
	if n.ReservationID != "" {
		data["reservation_id"] = n.ReservationID
	}
	for k, v := range n.Data {
		data[k] = stringify(v)
	}

	return &messaging.Message{
		Token: n.DeviceToken,
		Data:  data,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
