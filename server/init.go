package server

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/parser"
	"github.com/teranos/corpus/lex/storage"
	"github.com/teranos/corpus/logger"
)

// New creates a CorpusServer over an open, migrated database.
// cfg may be nil, in which case the layered config is loaded here.
func New(db *sql.DB, dbPath string, cfg *config.Config, verbosity int) (*CorpusServer, error) {
	// Defensive: validate critical inputs
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if verbosity < 0 || verbosity > 4 {
		return nil, errors.Newf("verbosity must be 0-4, got %d", verbosity)
	}

	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load configuration")
		}
		cfg = loaded
	}

	serverLogger := logger.Logger.Named("server")
	store := storage.NewSQLStore(db, serverLogger)

	ctx, cancel := context.WithCancel(context.Background())

	server := &CorpusServer{
		db:          db,
		dbPath:      dbPath,
		store:       store,
		interpreter: parser.New(parser.WithFirstVowel(cfg.GetFirstVowel())),
		cfg:         cfg,
		clients:     make(map[*Client]bool),
		broadcast:   make(chan Event, EventQueueSize),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		limiters:    make(map[string]*rate.Limiter),
		logger:      serverLogger,
		startedAt:   time.Now(),
		ctx:         ctx,
		cancel:      cancel,
	}
	server.verbosity.Store(int32(verbosity))
	server.state.Store(int32(ServerStateRunning))

	setupConfigWatcher(server, serverLogger)

	return server, nil
}

// setupConfigWatcher wires live reload of the user config into the server.
// Watch failures are logged and ignored: a daemon without live reload is
// still a working daemon.
func setupConfigWatcher(s *CorpusServer, log *zap.SugaredLogger) {
	paths := config.ConfigFilePaths()
	if len(paths) == 0 {
		log.Infow("No config file present, live reload disabled")
		return
	}

	// Watch the highest-precedence file; edits to it are the common case
	watchPath := paths[len(paths)-1]
	watcher, err := config.NewWatcher(watchPath)
	if err != nil {
		log.Warnw("Config watcher setup failed, live reload disabled",
			"path", watchPath,
			"error", err,
		)
		return
	}

	watcher.OnReload(s.applyConfig)
	watcher.Start()
	config.SetGlobalWatcher(watcher)
	s.configWatcher = watcher

	log.Infow("Config watcher started", "path", watchPath)
}
