// Package main запускает HTTP-сервер SMS-шлюза команд.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mmeshcher/sms-gateway/internal/command"
	"github.com/mmeshcher/sms-gateway/internal/config"
	"github.com/mmeshcher/sms-gateway/internal/downstream"
	"github.com/mmeshcher/sms-gateway/internal/handler"
	"github.com/mmeshcher/sms-gateway/internal/middleware"
	"github.com/mmeshcher/sms-gateway/internal/service"
	"github.com/mmeshcher/sms-gateway/internal/validation"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	client := downstream.NewClient(cfg.DownstreamURL, cfg.DownstreamTimeout)
	parser := command.NewParser(validation.NewDateNormalizer(time.Now))
	svc := service.NewService(parser, client, logger)

	if cfg.TwilioAuthToken == "" {
		sugar.Warn("TWILIO_AUTH_TOKEN is not set, request signatures are not verified")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthorizedNumber, cfg.TwilioAuthToken, cfg.PublicURL)
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), cfg.RateLimit)

	h := handler.NewHandler(svc, logger, authMiddleware, limiter)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, server, logger.With(
		zap.String("addr", cfg.RunAddress),
		zap.String("downstream", cfg.DownstreamURL),
		zap.Bool("signature_check", cfg.TwilioAuthToken != ""),
	)); err != nil {
		sugar.Fatalw("sms gateway terminated with error", "error", err)
	}
}

const shutdownTimeout = 5 * time.Second

// serve обслуживает webhook до отмены ctx и затем дожидается завершения
// обрабатываемых сообщений, но не дольше shutdownTimeout.
func serve(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("sms gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("sms gateway stopping, draining in-flight messages")

		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("drain webhook: %w", err)
		}
		logger.Info("sms gateway stopped")
		return nil
	})

	return g.Wait()
}
