package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/proxima-io/go-proximity-engine/api"
	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/internal/engine"
	"github.com/proxima-io/go-proximity-engine/internal/metrics"
)

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a YAML server configuration file")
		port       = flag.String("port", "", "Port to run the server on (overrides config file)")
		dataDir    = flag.String("data-dir", "", "Directory to store index data (overrides config file)")
		workers    = flag.Int("search-workers", 0, "Concurrent per-document proximity evaluations (overrides config file)")
		cacheTTL   = flag.Duration("cache-ttl", -1, "Query cache lifetime, 0 disables caching (overrides config file)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Go Proximity Engine - full-text search with unordered within-distance matching\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                              # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                  # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --config proximity.yaml      # Load settings from a config file\n", os.Args[0])
		return
	}
	if *version {
		fmt.Printf("Go Proximity Engine v1.0.0\n")
		return
	}

	cfg := config.DefaultServerConfig()
	if *configPath != "" {
		loaded, err := config.LoadServerConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
		cfg = loaded
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *workers > 0 {
		cfg.SearchWorkers = *workers
	}
	if *cacheTTL >= 0 {
		cfg.CacheTTL = *cacheTTL
	}

	log.Printf("Using data directory: %s (workers=%d, cache TTL=%s)", cfg.DataDir, cfg.SearchWorkers, formatTTL(cfg.CacheTTL))

	m := metrics.New(prometheus.DefaultRegisterer)
	proximityEngine := engine.NewEngine(cfg, m)

	router := gin.Default()
	api.SetupRoutes(router, proximityEngine, m)

	log.Printf("Starting server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func formatTTL(ttl time.Duration) string {
	if ttl <= 0 {
		return "disabled"
	}
	return ttl.String()
}
