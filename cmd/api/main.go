package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/chiro-horizon/registration-api/internal/adapters/httpapi"
	memdraftstore "github.com/chiro-horizon/registration-api/internal/adapters/memory/draftstore"
	memgrouprepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/grouprepo"
	memregistrationrepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/registrationrepo"
	memworkyearrepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/workyearrepo"
	postgres "github.com/chiro-horizon/registration-api/internal/adapters/postgres"
	pggrouprepo "github.com/chiro-horizon/registration-api/internal/adapters/postgres/grouprepo"
	pgregistrationrepo "github.com/chiro-horizon/registration-api/internal/adapters/postgres/registrationrepo"
	pgworkyearrepo "github.com/chiro-horizon/registration-api/internal/adapters/postgres/workyearrepo"
	redisdraftstore "github.com/chiro-horizon/registration-api/internal/adapters/redis/draftstore"
	"github.com/chiro-horizon/registration-api/internal/app/groups"
	"github.com/chiro-horizon/registration-api/internal/app/registration"
	platformclock "github.com/chiro-horizon/registration-api/internal/platform/clock"
	"github.com/chiro-horizon/registration-api/internal/platform/config"
	"github.com/chiro-horizon/registration-api/internal/ports/out/draftstore"
	grouprepoport "github.com/chiro-horizon/registration-api/internal/ports/out/grouprepo"
	registrationrepoport "github.com/chiro-horizon/registration-api/internal/ports/out/registrationrepo"
	workyearrepoport "github.com/chiro-horizon/registration-api/internal/ports/out/workyearrepo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	clk := platformclock.NewSystemClock()

	var (
		groupRepo        grouprepoport.Repository
		workYearRepo     workyearrepoport.Repository
		registrationRepo registrationrepoport.Repository
		cleanup          func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close

		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}

		groupRepo = pggrouprepo.NewRepo(pool)
		workYearRepo = pgworkyearrepo.NewRepo(pool)
		registrationRepo = pgregistrationrepo.NewRepo(pool)
	default:
		groupRepo = memgrouprepo.NewRepo()
		workYearRepo = memworkyearrepo.NewRepo()
		registrationRepo = memregistrationrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	var drafts draftstore.Store
	switch cfg.DraftBackend {
	case "redis":
		client, err := redisdraftstore.NewClient(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid redis config: %v", err)
		}
		defer func() { _ = client.Close() }()
		drafts = redisdraftstore.NewStore(client, cfg.DraftTTL)
	default:
		drafts = memdraftstore.NewStore()
	}

	registrationSvc := registration.NewService(drafts, groupRepo, workYearRepo, registrationRepo, clk)
	registrationSvc.Defaults = registration.DraftDefaults{
		PostalCode:   cfg.DefaultPostalCode,
		Municipality: cfg.DefaultMunicipality,
	}
	groupsSvc := groups.NewService(groupRepo, workYearRepo, clk)

	// In dev mode an unlabeled request falls back to the configured subject;
	// in header mode the proxy must name the caller on every request.
	defaultSubject := ""
	if cfg.AuthMode == "dev" {
		defaultSubject = cfg.DevSubject
	}

	api := httpapi.NewServer(registrationSvc, groupsSvc)
	handler := httpapi.NewRouter(api, httpapi.NewHeaderAuthMiddleware(defaultSubject))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
