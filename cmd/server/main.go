package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "radiator-stock/internal/adapters/web"
	"radiator-stock/internal/app"
	"radiator-stock/internal/config"
	"radiator-stock/internal/core"
	"radiator-stock/internal/db"
	"radiator-stock/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := db.Migrate(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("db connected")

	ledger := core.NewStockLedger(pool)
	customers := core.NewCustomerService(pool)
	warehouses := core.NewWarehouseService(pool)
	radiators := core.NewRadiatorService(pool, ledger)
	users := core.NewUserService(pool)
	sales := core.NewSaleService(pool, ledger, customers, warehouses, radiators, users)

	svc := app.NewAppService(sales, ledger, radiators, warehouses, customers)
	handler := webAdapter.NewHandler(svc, cfg.HTTP.AllowedOrigins, cfg.Metrics.Enabled)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
