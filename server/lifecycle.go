package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teranos/corpus/errors"
)

// getState returns the current server state
func (s *CorpusServer) getState() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *CorpusServer) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", stateString(newState))
}

// stateString returns human-readable state name
func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Start runs the hub and serves HTTP on the configured host and port.
// Blocks until the listener fails or Stop shuts the server down; a clean
// shutdown returns nil.
func (s *CorpusServer) Start() error {
	cfg := s.currentConfig()

	// Start the hub in a goroutine
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run()
	}()

	actualPort, err := findAvailablePort(cfg.Server.Host, cfg.Server.Port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}
	if actualPort != cfg.Server.Port {
		s.logger.Infow("Port in use, using alternative",
			"requested_port", cfg.Server.Port,
			"actual_port", actualPort,
		)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, actualPort)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infow("Server ready",
		"url", fmt.Sprintf("http://%s", addr),
		"port", actualPort,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Stop gracefully shuts down the server: drain HTTP, close WebSocket
// clients, stop the config watcher, and wait for goroutines with a bounded
// timeout.
func (s *CorpusServer) Stop() error {
	if s.getState() != ServerStateRunning {
		return nil // Already stopping or stopped
	}

	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	if s.configWatcher != nil {
		if err := s.configWatcher.Stop(); err != nil {
			s.logger.Warnw("Config watcher stop error", "error", err)
		}
	}

	// Drain in-flight HTTP requests
	if s.httpServer != nil {
		ctx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Warnw("HTTP server shutdown error", "error", err)
		}
	}

	// Close WebSocket clients before stopping the hub so their unregister
	// sends don't race against a dead loop
	s.mu.Lock()
	for client := range s.clients {
		client.close()
		delete(s.clients, client)
	}
	s.mu.Unlock()

	// Stop the hub and client goroutines
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infow("All server goroutines stopped")
	case <-time.After(10 * time.Second):
		s.logger.Warnw("Timeout waiting for server goroutines",
			"dropped_broadcasts", s.broadcastDrops.Load(),
		)
	}

	s.setState(ServerStateStopped)
	s.logger.Infow("Server shutdown complete")
	return nil
}

// Uptime returns the time elapsed since the server was created
func (s *CorpusServer) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// findAvailablePort probes ports starting at the requested one, walking up
// to 10 ports before giving up.
func findAvailablePort(host string, port int) (int, error) {
	for candidate := port; candidate < port+10; candidate++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, candidate))
		if err != nil {
			continue
		}
		ln.Close()
		return candidate, nil
	}
	return 0, errors.Newf("no available port in range %d-%d", port, port+9)
}
