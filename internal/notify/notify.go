// Package notify is the boundary to the notification collaborator.
// Delivery guarantees (fan-out, read tracking, email digests) are owned
// by the platform; the core only emits.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/metrics"
	"github.com/hiredeck/hiredeck/internal/store"
)

const TypeStatusUpdate = "status_update"

type Message struct {
	RecipientID uuid.UUID
	Type        string
	Message     string
	Link        string
}

type Emitter interface {
	Emit(ctx context.Context, msg Message) error
}

// StoreEmitter persists notifications as records the dashboards read
// back out.
type StoreEmitter struct {
	store store.Store
	now   func() time.Time
}

func NewStoreEmitter(s store.Store, now func() time.Time) *StoreEmitter {
	if now == nil {
		now = time.Now
	}
	return &StoreEmitter{store: s, now: now}
}

func (e *StoreEmitter) Emit(ctx context.Context, msg Message) error {
	metrics.NotificationsEmittedTotal.WithLabelValues(msg.Type).Inc()
	return e.store.InsertNotification(ctx, store.Notification{
		ID:          uuid.New(),
		RecipientID: msg.RecipientID,
		Type:        msg.Type,
		Message:     msg.Message,
		Link:        msg.Link,
		CreatedAt:   e.now().UTC(),
	})
}
