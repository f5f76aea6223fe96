package main

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/publish"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	log.Println("Starting wsn-watch...")

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Subscribe to run summaries
	sub, err := publish.NewSubscriber(cfg.Publisher)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.Start(func(s publish.RunSummary) {
		text, err := publish.JSON(s)
		if err != nil {
			log.Printf("Error rendering summary: %v", err)
			return
		}
		log.Printf("Run %s/%s %s: %s", s.Scenario, s.Seed, s.Outcome, text)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	// 3. Wait for a shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutdown signal received.")
}
