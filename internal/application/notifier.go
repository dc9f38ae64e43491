package application

import "context"

// NotificationJob describes one username-change confirmation to deliver.
// Consumed once; the workflow keeps no retry state for it.
type NotificationJob struct {
	To            string
	RecipientName string
	Language      string
	OldUsername   string
	NewUsername   string
}

// Notifier hands a rendered, localized username-change message to the mail
// transport. Delivery is advisory: the orchestrator logs failures and moves on.
type Notifier interface {
	NotifyUsernameChanged(ctx context.Context, job NotificationJob) error
}
