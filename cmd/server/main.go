package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"WoodLoft/internal/cart"
	"WoodLoft/internal/catalog"
	"WoodLoft/internal/config"
	"WoodLoft/internal/session"
	"WoodLoft/internal/storefront"
	"WoodLoft/internal/users"
	"WoodLoft/pkg/kit"
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	products, userStore := openStores(cfg, log)
	sessions := newSessionManager(cfg, log)

	s := &storefront.Server{
		Log:      log,
		Products: products,
		Users:    userStore,
		Sessions: sessions,
		Cart:     &cart.Service{Catalog: products, Sessions: sessions},
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	opts := kit.ServerOpts{Addr: ":" + cfg.Port, ShutdownTimeout: cfg.ShutdownTimeout}
	if err := kit.RunHTTPServer(opts, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// openStores picks Postgres when a DSN is configured, otherwise the JSON
// document stores. A missing or malformed document is fatal.
func openStores(cfg config.Config, log *zap.Logger) (catalog.Store, users.Store) {
	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		log.Info("using postgres stores")
		return catalog.NewPostgresStore(db), users.NewPostgresStore(db)
	}

	products, err := catalog.OpenFileStore(cfg.ProductsFile)
	if err != nil {
		log.Fatal("open product store", zap.String("path", cfg.ProductsFile), zap.Error(err))
	}

	userStore, err := users.OpenFileStore(cfg.UsersFile)
	if err != nil {
		log.Fatal("open user store", zap.String("path", cfg.UsersFile), zap.Error(err))
	}

	return products, userStore
}

func newSessionManager(cfg config.Config, log *zap.Logger) *session.Manager {
	var store session.Store = session.NewMemStore(cfg.SessionTTL)

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		store = session.NewRedisStore(client, cfg.SessionTTL)
		log.Info("using redis sessions", zap.String("addr", cfg.RedisAddr))
	}

	return &session.Manager{
		Store:        store,
		Tokens:       session.NewTokenMaker(cfg.SessionSecret, cfg.SessionTTL),
		TTL:          cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		Log:          log,
	}
}
