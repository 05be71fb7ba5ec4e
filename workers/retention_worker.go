// workers/retention_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"broker-intake-system/services"

	"github.com/go-co-op/gocron/v2"
)

// StartContactRetentionWorker sweeps cached contacts that have not been
// touched within retentionDays. The cache only exists to prefill forms on
// return visits; contact details from visitors who never came back should
// not sit in the table forever.
func StartContactRetentionWorker(ctx context.Context, store services.ContactStore, retentionDays int) (gocron.Scheduler, error) {
	if retentionDays <= 0 {
		retentionDays = 180
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().AddDate(0, 0, -retentionDays)
			purged, err := store.PurgeOlderThan(ctx, cutoff)
			if err != nil {
				log.Printf("⚠️ [RETENTION] Purge failed: %v", err)
				return
			}
			if purged > 0 {
				log.Printf("🧹 [RETENTION] Purged %d stale cached contact(s)", purged)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Printf("🔁 Contact retention worker running (retention: %d days)", retentionDays)
	return sched, nil
}
