package rabbitmq

import (
	"context"
	"time"
)

// Ключи маршрутизации событий.
const (
	RoutingUserRegistered      = "user.registered"
	RoutingUserPasswordChanged = "user.password_changed"
)

// UserEvent тело события об изменении пользователя.
type UserEvent struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NoopPublisher ничего не публикует. Используется, когда брокер не настроен.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// Close ничего не делает.
func (NoopPublisher) Close() error { return nil }
