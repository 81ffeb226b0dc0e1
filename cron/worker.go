package cron

import (
	"context"
	"time"

	"bookery/config"
	"bookery/services/scheduling"
	"bookery/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypePendingExpire is the task that releases stale pending appointments.
const TypePendingExpire = "booking:expire_pending"

// InitExpiryWorker runs the async worker and its periodic scheduler in the
// background. Pending appointments hold their interval for the configured
// window; after that the guard soft-cancels them so the time can be rebooked.
func InitExpiryWorker(guard *scheduling.Guard) {
	logger := utils.GetLogger()
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePendingExpire, handleExpireTask(guard))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 1m", asynq.NewTask(TypePendingExpire, nil)); err != nil {
		logger.Fatal("failed to register expiry task", zap.Error(err))
	}

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Fatal("expiry worker failed", zap.Error(err))
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Fatal("expiry scheduler failed", zap.Error(err))
		}
	}()
}

func handleExpireTask(guard *scheduling.Guard) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		hold := time.Duration(config.AppConfig.PendingHoldMinutes) * time.Minute
		if hold <= 0 {
			hold = 15 * time.Minute
		}
		n, err := guard.ExpirePending(ctx, hold)
		if err != nil {
			utils.GetLogger().Warn("pending expiry sweep failed", zap.Error(err))
			return err
		}
		if n > 0 {
			utils.GetLogger().Info("pending expiry sweep done", zap.Int("released", n))
		}
		return nil
	}
}
