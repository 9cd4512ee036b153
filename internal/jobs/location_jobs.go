package jobs

import (
	"context"
	"log"
	"time"
)

// LocationStore is the slice of the location repository the jobs use.
type LocationStore interface {
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type LocationJobs struct {
	locations LocationStore
}

func NewLocationJobs(locations LocationStore) *LocationJobs {
	return &LocationJobs{locations: locations}
}

// CompleteExpired moves active locations whose end date has passed to
// completed, freeing the handover calendar of their materiel.
func (j *LocationJobs) CompleteExpired() {
	runWithRecovery("CompleteExpiredLocations", func() {
		n, err := j.locations.CompleteExpired(context.Background(), time.Now())
		if err != nil {
			log.Printf("failed to complete expired locations: %v", err)
			return
		}
		if n > 0 {
			log.Printf("completed %d expired locations", n)
		}
	})
}
