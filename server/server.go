// Package server implements the corpus HTTP daemon: the JSON API over the
// analysis, filter, and interpreter packages, plus a WebSocket feed of
// record lifecycle events.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/lex/parser"
	"github.com/teranos/corpus/lex/storage"
)

// ServerState represents the lifecycle state for graceful shutdown
type ServerState int32

const (
	ServerStateRunning ServerState = iota
	ServerStateDraining
	ServerStateStopped
)

const (
	// MaxClients caps simultaneous WebSocket connections
	MaxClients = 64

	// EventQueueSize bounds the hub's broadcast channel
	EventQueueSize = 256

	// ClientSendQueueSize bounds each client's outbound queue; a client
	// that falls this far behind starts losing events rather than
	// blocking the hub
	ClientSendQueueSize = 32
)

// CorpusServer serves the string-analysis API and event feed
type CorpusServer struct {
	db     *sql.DB
	dbPath string
	store  *storage.SQLStore

	// Interpreter is swapped on config reload when first_vowel changes
	interpreter   *parser.Interpreter
	interpreterMu sync.RWMutex

	cfg           *config.Config
	cfgMu         sync.RWMutex
	configWatcher *config.Watcher

	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// Per-client-IP token buckets for /api/ routes
	limiters  map[string]*rate.Limiter
	limiterMu sync.Mutex

	httpServer *http.Server
	logger     *zap.SugaredLogger
	startedAt  time.Time

	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	verbosity      atomic.Int32
	state          atomic.Int32
	broadcastDrops atomic.Int64
}

// Run is the hub loop: it owns the clients map mutations and fans broadcast
// events out to connected clients. Started by Start, stopped by Stop via
// context cancellation.
func (s *CorpusServer) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		case event := <-s.broadcast:
			s.broadcastEvent(event)
		}
	}
}

// handleClientRegister handles a new client connection
func (s *CorpusServer) handleClientRegister(client *Client) {
	s.mu.Lock()

	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			"client_id", client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}

	s.clients[client] = true
	totalClients := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		"client_id", client.id,
		"total_clients", totalClients,
	)
}

// handleClientUnregister removes a client and closes its send queue
func (s *CorpusServer) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		client.close()
	}
	totalClients := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client disconnected",
		"client_id", client.id,
		"total_clients", totalClients,
	)
}

// clientCount returns the number of connected WebSocket clients
func (s *CorpusServer) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// currentConfig returns the live config snapshot
func (s *CorpusServer) currentConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// currentInterpreter returns the live interpreter
func (s *CorpusServer) currentInterpreter() *parser.Interpreter {
	s.interpreterMu.RLock()
	defer s.interpreterMu.RUnlock()
	return s.interpreter
}

// applyConfig installs a reloaded config: swaps the interpreter when the
// first-vowel rule changed and retunes every existing rate limiter.
// Registered as the watcher's reload callback.
func (s *CorpusServer) applyConfig(newCfg *config.Config) error {
	s.cfgMu.Lock()
	oldVowel := s.cfg.GetFirstVowel()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	if newVowel := newCfg.GetFirstVowel(); newVowel != oldVowel {
		s.interpreterMu.Lock()
		s.interpreter = parser.New(parser.WithFirstVowel(newVowel))
		s.interpreterMu.Unlock()
		s.logger.Infow("Interpreter first vowel updated",
			"old", string(oldVowel),
			"new", string(newVowel),
		)
	}

	s.limiterMu.Lock()
	for _, limiter := range s.limiters {
		limiter.SetLimit(rate.Limit(newCfg.Server.RateLimitRPS))
		limiter.SetBurst(newCfg.Server.RateLimitBurst)
	}
	s.limiterMu.Unlock()

	s.logger.Infow("Config reload applied",
		"rate_limit_rps", newCfg.Server.RateLimitRPS,
		"rate_limit_burst", newCfg.Server.RateLimitBurst,
	)
	return nil
}
