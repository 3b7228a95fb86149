// README: Entry point; loads config, wires stores and services, starts the HTTP server and fleet tracker.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"skyhail/internal/config"
	"skyhail/internal/events"
	httptransport "skyhail/internal/http"
	"skyhail/internal/infra"
	"skyhail/internal/logger"
	"skyhail/internal/modules/bid"
	"skyhail/internal/modules/fleet"
	"skyhail/internal/modules/need"
	"skyhail/internal/modules/vehicle"
	"skyhail/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("postgres init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	needStore := need.NewStore(dbPool)
	vehicleStore := vehicle.NewStore(redisClient)
	bidStore := bid.NewStore(redisClient, time.Duration(cfg.Bidding.TTLSeconds)*time.Second)

	calc := fleet.NewCalculator(fleet.QuoteConfig{
		PriceRate:      cfg.Bidding.PriceRate,
		AvgVelocity:    cfg.Bidding.AvgVelocity,
		PickupOverhead: cfg.Bidding.PickupOverhead,
		Expiry:         time.Duration(cfg.Bidding.ExpirySeconds) * time.Second,
		TTL:            time.Duration(cfg.Bidding.TTLSeconds) * time.Second,
	})

	var publisher bid.EventPublisher
	if cfg.AMQP.URL != "" {
		p, err := events.NewPublisher(cfg.AMQP.URL, zlog)
		if err != nil {
			zlog.Fatal("amqp init", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	bidSvc := bid.NewService(bidStore, needStore, vehicleStore, calc.Quote, publisher, zlog, bid.Config{
		Quota:        cfg.Bidding.Quota,
		RadiusMeters: cfg.Bidding.RadiusMeters,
	})

	tracker := fleet.NewTracker(
		telemetry.NewClient(cfg.Fleet.TelemetryURL),
		vehicleStore,
		fleet.RegistryFromConfig(cfg.Fleet.IDMap),
		zlog,
		time.Duration(cfg.Fleet.PollSeconds)*time.Second,
		cfg.Fleet.SimTag,
	)
	tracker.Start(ctx)
	defer tracker.Stop()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Bids:     bidSvc,
		Needs:    needStore,
		Vehicles: vehicleStore,
		Log:      zlog,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("http server", zap.Error(err))
	}
}
