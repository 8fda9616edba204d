package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"swarm-agents/internal/api"
	"swarm-agents/internal/asklog"
	"swarm-agents/internal/config"
	"swarm-agents/internal/db"
	"swarm-agents/internal/gemini"
	"swarm-agents/internal/logging"
	redisdb "swarm-agents/internal/redis"
	"swarm-agents/internal/session"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg)
	log := logging.For("main")

	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}

	var sessions session.Store
	rdb, err := redisdb.Connect(context.Background(), cfg)
	switch {
	case err != nil:
		log.Warnf("Redis unavailable at %s, keeping tab state in memory: %v", cfg.Redis.Addr, err)
		sessions = session.NewMemoryStore(cfg.SessionTTL())
	case rdb == nil:
		log.Info("No Redis configured, keeping tab state in memory")
		sessions = session.NewMemoryStore(cfg.SessionTTL())
	default:
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL())
	}

	client := gemini.NewClient(cfg.Gemini)
	if !client.HasKey() {
		log.Warn("Gemini API key not set, asks will be refused until it is configured")
	}

	deps := &api.Deps{
		Gemini:   client,
		Catalog:  gemini.NewCatalog(cfg.Gemini.Models),
		Sessions: sessions,
		AskLog:   asklog.NewRecorder(db.DB),
	}

	r := api.SetupRouter(cfg, deps)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Infof("Starting server on %s%s", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
