// @title         Compsync API
// @version       0.1.0
// @description   Bulk employee compensation imports and salary bands

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"compsync/internal/modkit/repokit"
	"compsync/internal/platform/config"
	"compsync/internal/platform/logger"
	phttp "compsync/internal/platform/net/http"
	"compsync/internal/platform/store"

	"compsync/internal/services/api"
)

func main() {
	// a missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// open the platform store (postgres + optional redis)
	st, err := store.Open(ctx, store.ConfigFrom(root, "compsync-api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// refuse to serve until every configured backend answers a ping
	repokit.MustGuard(ctx, st, apiCfg.MayDuration("GUARD_TIMEOUT", 5*time.Second))

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	mounted := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	// in-flight imports are cancelled between batches, then drained
	sctx, cancel := context.WithTimeout(context.Background(), apiCfg.MayDuration("DRAIN_TIMEOUT", 30*time.Second))
	defer cancel()
	if err := mounted.Importer.Shutdown(sctx); err != nil {
		l.Warn().Err(err).Msg("imports did not drain")
	}
}
