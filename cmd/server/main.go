package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	fxmodules "github.com/IkonicR/ClanOS-sub001/internal/fx"
	"github.com/IkonicR/ClanOS-sub001/internal/metrics"
	"github.com/IkonicR/ClanOS-sub001/internal/middleware"
	"github.com/IkonicR/ClanOS-sub001/internal/server"
	"github.com/IkonicR/ClanOS-sub001/internal/service"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
		fx.Invoke(runRecompute),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	warRoom *server.WarRoomServer,
	m *metrics.Metrics,
	cfg *config.Config,
	db *sql.DB,
	coc *api.CoCClient,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	path, handler := warRoom.Handler()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	mux.Handle(path, c.Handler(middleware.RequestID(logger)(handler)))
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/healthz", server.HealthHandler(db, coc))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           mux,
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}

func runRecompute(lc fx.Lifecycle, job *service.RecomputeJob) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				job.Loop(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
