package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	adapthttp "taskboard/internal/adapter/http"
	"taskboard/internal/adapter/api"
	"taskboard/internal/adapter/jwtdecode"
	"taskboard/internal/adapter/memory"
	"taskboard/internal/adapter/postgres"
	"taskboard/internal/adapter/redis"
	"taskboard/internal/adapter/websession"
	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/events"
)

const (
	cleanupInterval = time.Minute
	boardIdle       = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	client, err := api.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout})
	if err != nil {
		log.Fatalf("api client: %v", err)
	}

	decoder := jwtdecode.New()
	if cfg.JWKSURL != "" {
		decoder = jwtdecode.NewRemote(ctx, cfg.JWKSURL)
	}

	tokens, repo, closeStore := openTokenStore(ctx, cfg)
	defer closeStore()

	uiStore, err := websession.NewCookieStore(cfg.SessionSecret, "ui", cfg.SessionTTL, cfg.CookieSecure)
	if err != nil {
		log.Fatalf("ui session: %v", err)
	}

	authSvc := app.NewAuthService(client, decoder)
	taskSvc := app.NewTaskService(client)
	profileSvc := app.NewProfileService(client)
	bus := events.NewBus()
	boards := app.NewBoards(taskSvc, bus)
	guard := app.NewGuard(authSvc, client, app.GuardMode(cfg.GuardMode))

	go cleanup(ctx, boards, repo)

	h := adapthttp.New(authSvc, guard, boards, profileSvc, bus, tokens, websession.NewUI(uiStore, adapthttp.UICookie)).
		WithUploadLimit(cfg.UploadMaxBytes).
		Handler()

	log.Printf("listening on %s (api %s, token store %s, guard %s)", cfg.Addr, client.BaseURL(), cfg.TokenStore, guard.Mode())
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// openTokenStore returns the sessions.Store holding tokens and, for the
// server-side backends, the repository behind it.
func openTokenStore(ctx context.Context, cfg *config.Config) (sessions.Store, domain.SessionRepository, func()) {
	if cfg.TokenStore == config.StoreCookie {
		cs, err := websession.NewCookieStore(cfg.SessionSecret, "tokens", cfg.SessionTTL, cfg.CookieSecure)
		if err != nil {
			log.Fatalf("token store: %v", err)
		}
		return cs, nil, func() {}
	}

	var (
		repo    domain.SessionRepository
		closeFn = func() {}
	)
	switch cfg.TokenStore {
	case config.StoreMemory:
		repo = memory.NewSessionRepo()
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		repo = postgres.NewSessionRepo(db)
		closeFn = func() { _ = db.Close() }
	case config.StoreRedis:
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		repo = redis.NewSessionRepo(rdb)
		closeFn = func() { _ = rdb.Close() }
	}

	ss, err := websession.NewServerStore(repo, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	if err != nil {
		log.Fatalf("token store: %v", err)
	}
	return ss, repo, closeFn
}

// cleanup releases idle dashboards and expired server-side sessions.
func cleanup(ctx context.Context, boards *app.Boards, repo domain.SessionRepository) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := boards.Sweep(boardIdle); n > 0 {
				log.Printf("released %d idle dashboards", n)
			}
			if repo == nil {
				continue
			}
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Printf("delete expired sessions: %v", err)
			}
		}
	}
}
