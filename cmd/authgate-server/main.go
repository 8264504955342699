// Command authgate-server runs the authentication gateway as a standalone
// HTTP service: Google sign-in, session token issuance, and role-gated user
// routes backed by SQLite and Redis.
//
// Configuration is read from the environment; see authgate.ConfigFromEnv for
// the recognized variables. AUTHGATE_DB_PATH selects the SQLite file
// (default ./authgate.db) and AUTHGATE_LISTEN_ADDR the bind address
// (default :8080).
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

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	authgate "github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/provider"
	"github.com/MrEthical07/authgate/store/sqlite"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg := authgate.ConfigFromEnv()
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	dbPath := os.Getenv("AUTHGATE_DB_PATH")
	if dbPath == "" {
		dbPath = "./authgate.db"
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		logger.Fatal("open user store", zap.String("path", dbPath), zap.Error(err))
	}
	defer store.Close()

	google := provider.NewGoogle(provider.GoogleConfig{
		ClientID:     cfg.Provider.ClientID,
		ClientSecret: cfg.Provider.ClientSecret,
		RedirectURI:  cfg.Provider.RedirectURI,
		Scopes:       cfg.Provider.Scopes,
	})

	builder := authgate.New().
		WithConfig(cfg).
		WithUserStore(store).
		WithProvider(google).
		WithLogger(logger)

	if cfg.Cache.Enabled {
		builder = builder.WithRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
		}))
	}

	gw, err := builder.Build()
	if err != nil {
		logger.Fatal("build gateway", zap.Error(err))
	}

	addr := os.Getenv("AUTHGATE_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(gw, store),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := gw.Close(ctx); err != nil {
		logger.Warn("gateway shutdown", zap.Error(err))
	}
}
