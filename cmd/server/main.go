// Package main starts the marketplace HTTP server.
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

	"golang.org/x/sync/errgroup"

	"github.com/docsewa/marketplace-api/internal/api"
	"github.com/docsewa/marketplace-api/internal/core/ports"
	"github.com/docsewa/marketplace-api/internal/core/service"
	mongodb "github.com/docsewa/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/docsewa/marketplace-api/internal/infrastructure/db/redis"
	"github.com/docsewa/marketplace-api/internal/infrastructure/gateway"
	"github.com/docsewa/marketplace-api/internal/pkg/config"
	"github.com/docsewa/marketplace-api/pkg/logger"
)

// @title        Document Service Marketplace API
// @version      1.0
// @description  Paid service-request marketplace brokering orders between requesters, partners and admins.
// @BasePath     /
//
// @securityDefinitions.apikey  SessionAuth
// @in                          header
// @name                        Cookie
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	partners := mongodb.NewPartnerRepository(db)
	requesters := mongodb.NewRequesterRepository(db)
	orders := mongodb.NewOrderRepository(db)
	vouchers := mongodb.NewVoucherRepository(db)
	services := mongodb.NewServiceRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	for name, idx := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"users":      users,
		"partners":   partners,
		"requesters": requesters,
		"orders":     orders,
		"vouchers":   vouchers,
		"services":   services,
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Gateway ---
	var paymentGateway ports.PaymentGateway
	gwCfg := gateway.Config{
		BaseURL:   cfg.Razorpay.BaseURL,
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
	}
	if gwCfg.Configured() {
		paymentGateway = gateway.NewClient(gwCfg, log)
	} else {
		log.Warn().Msg("payment gateway credentials absent; intents will fail until configured")
	}

	// --- Services ---
	voucherService := service.NewVoucherService(vouchers, log)
	svcs := api.Services{
		Auth:    service.NewAuthService(users, partners, requesters, sessions, cfg.SessionTTL, log),
		Catalog: service.NewCatalogService(services, log),
		Orders:  service.NewOrderService(orders, services, partners, requesters, voucherService, log),
		Payment: service.NewPaymentService(paymentGateway, orders, voucherService, log),
		Voucher: voucherService,
		Admin:   service.NewAdminService(partners, requesters, orders, log),
	}

	e := api.NewRouter(svcs, db, rdb, api.RouterConfig{SecureCookies: cfg.SecureCookies}, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: e,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting marketplace server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server terminated with error")
	}
	log.Info().Msg("server stopped")
}
