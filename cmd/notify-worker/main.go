package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/creativeiyke/agency-platform/cmd/mainconfig"
	"github.com/creativeiyke/agency-platform/internal/app/bootstrap"
	"github.com/creativeiyke/agency-platform/internal/config"
	"github.com/creativeiyke/agency-platform/internal/notify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	var redisQueue *notify.RedisQueue
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	queue, err := bootstrap.BuildLeadQueue(cfg, awsCfg, redisClient)
	if err != nil {
		logger.Error("notify worker requires LEAD_QUEUE_URL or a reachable REDIS_ADDR", "error", err)
		os.Exit(1)
	}
	if rq, ok := queue.(*notify.RedisQueue); ok {
		redisQueue = rq
	}

	// Messages stranded by a crashed worker go back on the queue.
	if redisQueue != nil {
		if n, err := redisQueue.Recover(ctx); err != nil {
			logger.Warn("failed to recover in-flight leads", "error", err)
		} else if n > 0 {
			logger.Info("recovered in-flight leads", "count", n)
		}
	}

	sink, err := notify.NewEmailSink(
		bootstrap.BuildEmailSender(cfg, awsCfg, logger),
		bootstrap.Recipients(cfg.LeadNotifyEmail),
		logger.Component("lead-email"),
	)
	if err != nil {
		logger.Error("failed to configure lead email", "error", err)
		os.Exit(1)
	}

	worker := notify.NewWorker(queue, sink, logger.Component("notify-worker")).
		WithMaxAttempts(cfg.DispatchMaxAttempts)
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("notify worker shutting down")
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn("notify worker did not stop in time")
	}
}
