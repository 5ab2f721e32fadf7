package gateway

import (
	"context"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/internal/pkg/nsq"
)

// NotificationGateway publishes settlement notifications to the NSQ
// notification topic without awaiting delivery.
type NotificationGateway struct {
	producer *nsq.Producer
	topic    string
}

// NewNotificationGateway creates a new notification gateway
func NewNotificationGateway(producer *nsq.Producer, topic string) *NotificationGateway {
	return &NotificationGateway{
		producer: producer,
		topic:    topic,
	}
}

// Notify publishes a notification best effort
func (g *NotificationGateway) Notify(_ context.Context, notification models.Notification) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	g.producer.PublishBestEffort(g.topic, notification)
}
