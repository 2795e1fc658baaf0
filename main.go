package main

import (
	"context"
	"log"

	"github.com/ChristinaBak/Oasa/config"
	"github.com/ChristinaBak/Oasa/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("[MAIN] Failed to initialize container: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[MAIN] Loading validations snapshot")
	if _, _, err := container.SnapshotRefresherService.Reload(ctx, true); err != nil {
		log.Fatalf("[MAIN] Initial snapshot load failed: %v", err)
	}

	log.Println("[MAIN] Starting periodic reload job")
	container.SnapshotRefresherService.StartPeriodicJob(ctx, cfg.Source.ReloadInterval)

	container.DashboardHttpServer.Start()
}
