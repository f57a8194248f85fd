package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/km-agri-be/internal/auth"
	"github.com/hongminglow/km-agri-be/internal/config"
	"github.com/hongminglow/km-agri-be/internal/notify"
	"github.com/hongminglow/km-agri-be/internal/server"
	"github.com/hongminglow/km-agri-be/internal/session"
	"github.com/hongminglow/km-agri-be/internal/storage"
	"github.com/hongminglow/km-agri-be/internal/storage/memory"
	"github.com/hongminglow/km-agri-be/internal/storage/mongo"
	"github.com/hongminglow/km-agri-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	userStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	defer closeStore()

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		log.Fatalf("init sessions: %v", err)
	}
	defer closeSessions()

	events := openPublisher(cfg)
	defer func() {
		if err := events.Close(); err != nil {
			log.Printf("close publisher: %v", err)
		}
	}()

	srv := server.New(cfg, server.Deps{Store: userStore, Sessions: sessions, Events: events})

	go func() {
		log.Printf("KM Agri backend listening on %s (store=%s, sessions=%s)", cfg.HTTPAddress(), cfg.StoreDriver, cfg.SessionBackend)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.UserStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		s, err := postgres.NewUserStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverMemory:
		log.Println("using in-memory store; data is lost on restart")
		s := memory.NewUserStore()
		return s, s.Close, nil
	default:
		s, err := mongo.NewUserStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
}

func openSessions(ctx context.Context, cfg config.Config) (session.Manager, func(), error) {
	if cfg.SessionBackend == config.SessionRedis {
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
	}
	return auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL), func() {}, nil
}

func openPublisher(cfg config.Config) notify.Publisher {
	if !cfg.KafkaEnabled() {
		log.Println("KAFKA_BROKERS not set; notifications go to the log")
		return notify.LogPublisher{}
	}
	return notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
