package app

import (
	"context"

	"time_recorder_bot/internal/domain/attendance"
)

// Notification is a message for the user. ID groups notifications that can be
// withdrawn later; ContextMessage is a secondary line. A non-zero Stamp offers
// the matching clock button with the message.
type Notification struct {
	ID             string
	Message        string
	ContextMessage string
	Stamp          attendance.StampType
}

// NotificationSink delivers notifications. Delivery is fire-and-forget:
// implementations log failures instead of returning them.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification)
	Clear(ctx context.Context, id string)
}
