package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"NavTrace/internal/collector"
	"NavTrace/internal/config"
	"NavTrace/internal/model"
	"NavTrace/internal/probe"
	"NavTrace/internal/storage"
	"NavTrace/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	log.Println("Starting nt-collector...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	telemetry.Serve(cfg.Telemetry.MetricsAddr)

	var writers []model.Writer
	for _, def := range cfg.Collector.Writers {
		if !def.Enabled {
			continue
		}
		switch def.Type {
		case "clickhouse":
			w, err := storage.NewClickHouseWriter(def.ClickHouse, def.BatchSize)
			if err != nil {
				log.Fatalf("Failed to create ClickHouse writer: %v", err)
			}
			writers = append(writers, w)
		case "file":
			w, err := storage.NewFileWriter(def.Path)
			if err != nil {
				log.Fatalf("Failed to create file writer: %v", err)
			}
			writers = append(writers, w)
		default:
			log.Fatalf("Unknown writer type '%s' in config.", def.Type)
		}
	}
	if len(writers) == 0 {
		log.Fatalf("No enabled writers in config, collector has nothing to do.")
	}

	var latest *storage.LatestStore
	if cfg.Redis.Addr != "" {
		latest, err = storage.NewLatestStore(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer latest.Close()
	}

	col := collector.New(cfg.Collector.NumWorkers, cfg.Collector.ChannelSize, writers, latest)
	col.Start()

	sub, err := probe.NewSubscriber(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}

	if err := sub.Start(col.Enqueue); err != nil {
		log.Fatalf("Subscriber failed to start: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, stopping collector...")
	sub.Close()
	col.Stop()
	log.Println("Shutdown complete.")
}
