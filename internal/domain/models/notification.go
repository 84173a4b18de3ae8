package models

import (
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
)

type Notification struct {
	ID            string                 `json:"id"`
	Recipient     types.RecipientType    `json:"recipient"`
	DriverID      string                 `json:"driver_id,omitempty"`
	Type          types.NotificationType `json:"type"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	ReservationID string                 `json:"reservation_id,omitempty"`
	Data          map[string]any         `json:"data,omitempty"`
	Read          bool                   `json:"read"`
	CreatedAt     time.Time              `json:"created_at"`

	// DeviceToken routes a driver notification to a push provider. Never persisted.
	DeviceToken string `json:"-"`
}

// AdminNotification builds an unread notification for the operations desk.
func AdminNotification(kind types.NotificationType, title, message, reservationID string) Notification {
	return Notification{
		Recipient:     types.RecipientAdmin,
		Type:          kind,
		Title:         title,
		Message:       message,
		ReservationID: reservationID,
	}
}

// DriverNotification builds an unread notification addressed to one driver.
func DriverNotification(driver *Driver, kind types.NotificationType, title, message, reservationID string) Notification {
	return Notification{
		Recipient:     types.RecipientDriver,
		DriverID:      driver.ID,
		Type:          kind,
		Title:         title,
		Message:       message,
		ReservationID: reservationID,
		DeviceToken:   driver.PushToken,
	}
}
