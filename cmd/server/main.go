package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/config"
	"masterboxer.com/project-social-backend/database"
	"masterboxer.com/project-social-backend/logging"
	"masterboxer.com/project-social-backend/routes"
	"masterboxer.com/project-social-backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Server: invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := database.Open(connectCtx, cfg)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Server: store connection failed")
	}
	defer store.Close(context.Background())

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.WithError(err).Fatal("Server: token service init failed")
	}
	hasher := services.NewPasswordHasher(cfg.BcryptCost)

	handler := routes.NewRouter(routes.Dependencies{
		Auth:       services.NewAuthService(store, hasher, tokens),
		Users:      services.NewUserService(store, cfg.AtomicFriendToggle),
		Posts:      services.NewPostService(store, store),
		Tokens:     tokens,
		AssetsDir:  cfg.AssetsDir,
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"addr":  srv.Addr,
			"store": cfg.StoreDriver,
		}).Info("Server: listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server: listen failed")
		}
	}()

	<-ctx.Done()
	log.Info("Server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server: graceful shutdown failed")
	}
}
