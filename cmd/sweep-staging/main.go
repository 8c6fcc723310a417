package main

import (
	"context"
	"log"

	"github.com/imgpipe/images-ms-go/internal/config"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/task"
)

// Enqueues one staging sweep on the worker queue. Meant to be run from cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌  Configuration error: %v", err)
	}

	dispatcher := initDispatcher(cfg)
	if err := dispatcher.EnqueueSweepStaging(context.Background()); err != nil {
		log.Fatalf("❌  Could not enqueue staging sweep: %v", err)
	}
	log.Println("✅  Staging sweep enqueued")
}

func initDispatcher(cfg *config.Settings) port.TaskDispatcher {
	if cfg.RedisAddr == "" {
		log.Fatalf("❌  Redis not configured: this command requires a running Redis instance")
	}
	return task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
}
