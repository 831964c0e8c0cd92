// Package app wires the host together: configuration, logging, lifecycle
// collaborators, the room manager, and the HTTP server with graceful
// shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"

	"philoworld/server/internal/lifecycle"
	servernet "philoworld/server/internal/net"
	"philoworld/server/internal/room"
	"philoworld/server/internal/room/philosophy"
	"philoworld/server/internal/telemetry"
)

// Run starts the host and blocks until the context is cancelled or the
// server fails.
func Run(ctx context.Context) error {
	cfg, err := ParseConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	logger, sync := telemetry.NewLogger(telemetry.Config{FilePath: cfg.LogFile, Debug: cfg.LogDebug})
	defer sync()

	recorders := lifecycle.Multi{}
	if cfg.NATSURL != "" {
		nr, err := lifecycle.NewNATSRecorder(cfg.NATSURL, logger)
		if err != nil {
			return fmt.Errorf("lifecycle nats: %w", err)
		}
		defer nr.Close()
		recorders = append(recorders, nr)
		logger.Infof("lifecycle events publishing to %s", cfg.NATSURL)
	}
	if cfg.SQLiteDSN != "" {
		sr, err := lifecycle.NewSQLiteRecorder(cfg.SQLiteDSN, logger)
		if err != nil {
			return fmt.Errorf("lifecycle sqlite: %w", err)
		}
		defer sr.Close()
		recorders = append(recorders, sr)
		logger.Infof("session bookkeeping in %s", cfg.SQLiteDSN)
	}

	roomCfg := cfg.RoomConfig()
	manager := room.NewManager(func(id string) (*room.Room, error) {
		return room.New(id, roomCfg, philosophy.New(), room.Deps{
			Logger:   logger,
			Recorder: recorders,
		})
	}, logger)

	handler := servernet.NewHandler(manager, servernet.HandlerConfig{Logger: logger})
	srv := &nethttp.Server{Addr: cfg.Addr, Handler: handler.Mux()}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Stop accepting, give in-flight sessions a fixed grace window, then
	// tear the rooms down.
	logger.Infof("shutting down, %s grace", cfg.ShutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown incomplete: %v", err)
	}
	manager.DisposeAll("server shutdown")
	return nil
}
