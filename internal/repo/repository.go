package repo

import (
	"context"

	"github.com/hamed0406/syncwatch/internal/domain"
)

// NotificationStore records every message the monitor composed, whether or
// not it was delivered.
type NotificationStore interface {
	Append(ctx context.Context, n *domain.Notification) error
	Recent(ctx context.Context, limit int) ([]domain.Notification, error)
}
