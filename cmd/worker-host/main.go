package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transport"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/workerhost"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.InitLogger(cfg.LogLevel)
	log.Info().Str("port", cfg.WorkerHostPort).Msg("🚀 Starting worker-host")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.WorkerHostPort,
		Handler:           newMux(ctx, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down worker-host...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("❌ Server stopped")
	}
}

// newMux serves one worker host per websocket connection, each with its own cache
func newMux(ctx context.Context, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws, err := transport.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error().Err(err).Msg("❌ Websocket upgrade failed")
			return
		}

		conn := transport.NewWebsocketConn(ws, logger)
		defer conn.Close()

		connLogger := logger.With().Str("remote", r.RemoteAddr).Logger()
		connLogger.Info().Msg("🔌 Pipeline connected")
		if err := workerhost.Serve(ctx, conn, connLogger); err != nil && ctx.Err() == nil {
			connLogger.Error().Err(err).Msg("❌ Worker host stopped")
		}
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "worker-host"})
	})

	return mux
}
