package jobs

import (
	"context"
	"log"
	"time"
)

const notificationRetention = 90 * 24 * time.Hour

// NotificationStore is the slice of the notification repository the jobs use.
type NotificationStore interface {
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
}

type NotificationJobs struct {
	notifs NotificationStore
}

func NewNotificationJobs(notifs NotificationStore) *NotificationJobs {
	return &NotificationJobs{notifs: notifs}
}

// PurgeRead drops read notifications older than the retention window.
func (j *NotificationJobs) PurgeRead() {
	runWithRecovery("PurgeReadNotifications", func() {
		n, err := j.notifs.PurgeRead(context.Background(), time.Now().Add(-notificationRetention))
		if err != nil {
			log.Printf("failed to purge notifications: %v", err)
			return
		}
		if n > 0 {
			log.Printf("purged %d read notifications", n)
		}
	})
}
