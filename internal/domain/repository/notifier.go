package repository

import (
	"context"

	"flightops-service/internal/domain/entity"
)

// Notifier delivers reminders to subscribers. Delivery is best effort;
// callers log failures and move on.
type Notifier interface {
	SendReminder(ctx context.Context, userID string, reminder *entity.Reminder) error
}
