package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"eve-hauler/internal/api"
	"eve-hauler/internal/config"
	"eve-hauler/internal/db"
	"eve-hauler/internal/esi"
	"eve-hauler/internal/logger"
	"eve-hauler/internal/scheduler"
)

var version = "dev"

func main() {
	port := flag.Int("port", 13371, "HTTP server port")
	configPath := flag.String("config", "hauler.yaml", "YAML config file path")
	dbPath := flag.String("db", db.DefaultPath(), "SQLite database path")
	flag.Parse()

	logger.Banner(version)

	bootstrap, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Config", fmt.Sprintf("Load failed: %v", err))
		os.Exit(1)
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	// Saved config keys override the YAML bootstrap.
	cfg := database.LoadConfig(bootstrap)

	esiClient := esi.NewClient(database)
	if esiClient.HealthCheck() {
		logger.Success("ESI", "Connected")
	} else {
		logger.Warn("ESI", "Unreachable, queries will fail until it recovers")
	}

	srv := api.NewServer(cfg, esiClient, database)

	sched := scheduler.New(srv.RunWatchlistScan)
	if cfg.ScanCron != "" {
		if err := sched.Register(cfg.ScanCron); err != nil {
			logger.Warn("Sched", fmt.Sprintf("Bad scan_cron %q: %v", cfg.ScanCron, err))
		} else {
			sched.Start()
			defer sched.Stop()
		}
	}

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
