package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"food-rescue-marketplace/internal/config"
	"food-rescue-marketplace/internal/domain/event"
	"food-rescue-marketplace/internal/domain/ports/lock"
	"food-rescue-marketplace/internal/domain/ports/repository"
	"food-rescue-marketplace/internal/infra/api"
	"food-rescue-marketplace/internal/infra/api/apiv1"
	"food-rescue-marketplace/internal/infra/db/memory"
	pg "food-rescue-marketplace/internal/infra/db/postgres"
	infraevent "food-rescue-marketplace/internal/infra/event"
	"food-rescue-marketplace/internal/infra/logging"
	"food-rescue-marketplace/internal/infra/memlock"
	"food-rescue-marketplace/internal/infra/metrics"
	red "food-rescue-marketplace/internal/infra/redis"
	"food-rescue-marketplace/internal/infra/web"
	"food-rescue-marketplace/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed config checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Stores ----
	var (
		offerRepo       repository.OfferRepository
		reservationRepo repository.ReservationRepository
		pickupRepo      repository.PickupRepository
	)
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		offerRepo = pg.NewOfferRepo(pool)
		reservationRepo = pg.NewReservationRepo(pool)
		pickupRepo = pg.NewPickupRepo(pool)
		logger.Info().Msg("using postgres stores")
	} else {
		offerRepo = memory.NewOfferRepo()
		reservationRepo = memory.NewReservationRepo()
		pickupRepo = memory.NewPickupRepo()
		logger.Warn().Msg("database.url not set, using in-memory stores")
	}

	// ---- Locker ----
	var locker lock.Locker
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		locker = red.NewLocker(redisClient)
		logger.Info().Msg("using redis reserve lock")
	} else {
		locker = memlock.New()
		logger.Warn().Msg("redis.url not set, using process-local reserve lock")
	}

	// ---- Events and metrics ----
	metrics.MustRegister()
	bus := infraevent.NewDispatcher(logger)
	audit := usecase.AuditHandler(logger)
	for _, name := range []string{
		event.NameOfferPublished,
		event.NameOfferReserved,
		event.NameReservationCreated,
		event.NameReservationCancelled,
		event.NamePickupCompleted,
		event.NamePickupFailed,
	} {
		bus.Subscribe(name, audit)
	}

	// ---- Use cases ----
	offerUC := usecase.NewOfferUseCase(offerRepo, bus, logger)
	reservationUC := usecase.NewReservationUseCase(
		offerRepo, reservationRepo, locker, cfg.Redis.LockTTL,
		cfg.Reservations.MaxActivePerUser, bus, logger,
	)
	pickupUC := usecase.NewPickupUseCase(offerRepo, reservationRepo, pickupRepo, bus, logger)

	// ---- Public API ----
	router := chi.NewRouter()
	router.Use(api.TraceID(), api.RequestLog(logger), api.Recover(logger), api.Timeout(15*time.Second))
	apiv1.NewServer(offerUC, reservationUC, pickupUC).Register(router)

	public := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: router}
	go func() {
		logger.Info().Str("addr", public.Addr).Msg("public api listening")
		if err := public.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public api server error")
		}
	}()

	// ---- Admin server ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, 30*time.Minute)
	adminSrv := web.NewServer(offerUC, reservationUC, auth, cfg.Admin.Password, logger)
	adminMux := http.NewServeMux()
	adminSrv.RegisterRoutes(adminMux)
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	admin := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminMux}
	go func() {
		logger.Info().Str("addr", admin.Addr).Msg("admin server listening")
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := public.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("public api shutdown")
	}
	if err := admin.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("admin server shutdown")
	}
	cancel()
}
