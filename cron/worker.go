package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cartscout/config"
	"cartscout/services/checkout"
	"cartscout/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitSessionWorker runs the async worker and the periodic sweep schedule in
// the background.
func InitSessionWorker(registry *checkout.Registry, sessionTTL time.Duration) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSessionSweep, handleSessionSweep(registry, sessionTTL))
	mux.HandleFunc(tasks.TypeAbandonNudge, handleAbandonNudge(registry))

	// Start async worker with retry logic
	go func() {
		log.Println("[SessionWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SessionWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SessionWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	// Schedule the periodic sweep.
	go func() {
		scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
		if _, err := scheduler.Register("@every 5m", tasks.NewSessionSweepTask()); err != nil {
			log.Printf("[SessionWorker] Failed to register sweep schedule: %v", err)
			return
		}
		if err := scheduler.Run(); err != nil {
			log.Printf("[SessionWorker] Scheduler stopped: %v", err)
		}
	}()
}

func handleSessionSweep(registry *checkout.Registry, sessionTTL time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		swept := registry.Sweep(sessionTTL)
		if swept > 0 {
			zap.L().Info("session sweep completed", zap.Int("swept", swept))
		}
		return nil
	}
}

// handleAbandonNudge fires for sessions still open well after creation. The
// nudge is a log-visible event the presentation layer can subscribe to; a
// session that already closed is simply skipped.
func handleAbandonNudge(registry *checkout.Registry) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.AbandonNudgePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NudgeHandler] Invalid payload: %v", err)
			return err
		}

		sess, err := registry.Get(p.Handle)
		if err != nil {
			// Session completed or was cancelled; nothing to nudge.
			return nil
		}

		zap.L().Info("checkout still open, nudge due",
			zap.String("handle", p.Handle),
			zap.String("provider", p.ProviderID),
			zap.String("step", string(sess.CurrentStep)))
		return nil
	}
}
