package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"efewire/api"
	"efewire/config"
	"efewire/efe"
	"efewire/images"
	"efewire/notices"
	"efewire/pipeline"
	"efewire/scheduler"
	"efewire/settings"
	"efewire/storage"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	cfg := config.Load()

	noticeLog := notices.New()

	store := newStore(cfg, noticeLog)

	files, err := storage.NewLocal(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("uploads root: %v", err)
	}

	var mirror *storage.Mirror
	if cfg.S3Bucket != "" {
		mirror, err = storage.NewMirror(context.Background(), storage.MirrorConfig{
			Bucket: cfg.S3Bucket,
			Region: cfg.S3Region,
			Prefix: cfg.S3Prefix,
		})
		if err != nil {
			log.Fatalf("s3 mirror: %v", err)
		}
		log.Printf("mirroring output to s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
	}

	source := efe.NewSource(cfg.APIBase, store, noticeLog)
	resolver := images.NewResolver(files, source, cfg.PublicBaseURL, noticeLog)
	pipe := pipeline.New(source, store, resolver, files, mirror, noticeLog)

	sched, err := scheduler.New(cfg.CronSpec, pipe, store, noticeLog)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	log.Printf("ingestion scheduled: %s", cfg.CronSpec)

	router := api.NewRouter(pipe, store, noticeLog)
	log.Printf("admin API listening on %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// newStore connects the Redis settings store, falling back to the
// in-memory store when no address is configured.
func newStore(cfg config.Config, noticeLog *notices.Log) settings.Store {
	if cfg.RedisAddr == "" {
		log.Printf("REDIS_ADDR not set; settings are in-memory and will not survive restarts")
		return settings.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		noticeLog.Warnf("redis ping failed: %v", err)
	}
	return settings.NewRedisStore(client, "")
}
