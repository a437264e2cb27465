package main

import (
	"context"
	"flag"
	"log"
	"time"

	"fiestas-server/config"
	"fiestas-server/di"
	"fiestas-server/util"
)

func main() {
	configPath := flag.String("config", config.DEFAULT_CONFIG_FILE, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("Refreshing event catalog")
	if err := container.CatalogRefresherService.RefreshCatalog(ctx); err != nil {
		log.Printf("Initial catalog refresh failed, event reads answer 503 until a refresh succeeds: %v", err)
	} else if cfg.Env != config.ENV_PROD {
		if events, err := container.EventService.ListEvents(); err == nil {
			util.PrintEventsPartially(events, 5)
		}
	}

	log.Println("Starting periodic jobs")
	container.CatalogRefresherService.StartPeriodicJob(ctx, time.Duration(cfg.Catalog.RefreshMinutes)*time.Minute)
	if err := container.StatusTickerService.Start(cfg.Catalog.StatusTickerSchedule); err != nil {
		log.Fatalf("Failed to start status ticker: %v", err)
	}

	if err := container.FestivalHttpServer.Start(ctx); err != nil {
		log.Printf("Server stopped with error: %v", err)
	}

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), config.SHUTDOWN_TIMEOUT_SECONDS*time.Second)
	defer stopCancel()
	container.StatusTickerService.Stop(stopCtx)
}
