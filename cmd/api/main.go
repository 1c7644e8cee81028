package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotelex_register/internal/adapters/http_server"
	"hotelex_register/internal/adapters/observability"
	redisad "hotelex_register/internal/adapters/redis"
	"hotelex_register/internal/adapters/wallmessage"
	"hotelex_register/internal/app"
	"hotelex_register/internal/domain"
	"hotelex_register/internal/shared"
	mysqlrepo "hotelex_register/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)

	// table bootstrap is best-effort: a failure here is loud but not fatal,
	// the tables usually already exist
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error().Err(err).Msg("schema bootstrap failed")
	} else {
		log.Info().Msg("schema ok")
	}
	cancel()

	// messenger: start without it rather than block registrations, the
	// service reports every affected call with a warning
	var messenger domain.Messenger
	if cl, err := wallmessage.New(cfg.GatewayURL, cfg.GatewayApp, cfg.GatewayAuth, 5); err != nil {
		log.Warn().Err(err).Msg("starting without messaging gateway")
	} else {
		messenger = cl
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheTTL)
	reg := app.NewRegistrationService(repo, messenger, cache, cfg.CountryCode)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	promReg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(promReg))
	srv.MountHandlers(&server.Handlers{Reg: reg, Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
