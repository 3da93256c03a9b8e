// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartVotingSweep moves expired tournaments into voting on a fixed interval,
// so the stored status catches up even when nobody is calling the API.
// The caller owns the returned scheduler and must Shutdown it.
func (s *TournamentService) StartVotingSweep(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			moved, err := s.SweepExpired(ctx)
			if err != nil {
				log.Printf("[Scheduler] Voting sweep failed: %v", err)
				return
			}
			if moved > 0 {
				log.Printf("✅ Moved %d tournament(s) into voting", moved)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
