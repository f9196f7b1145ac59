package server

// Liveness, status, and config introspection handlers.

import (
	"net/http"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/teranos/corpus/version"
)

// HandleHealth reports liveness. GET /health.
func (s *CorpusServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()

	health := map[string]interface{}{
		"status":         "ok",
		"name":           "corpus",
		"version":        versionInfo.Version,
		"commit":         versionInfo.CommitHash,
		"build_time":     versionInfo.BuildTime,
		"uptime_seconds": int(s.Uptime().Seconds()),
		"clients":        s.clientCount(),
	}

	writeJSON(w, http.StatusOK, health)
}

// HandleStatus reports daemon status: version, uptime, record count, and
// process stats. GET /api/status.
func (s *CorpusServer) HandleStatus(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()

	count, err := s.store.Count(r.Context())
	if err != nil {
		writeTaxonomyError(w, s.logger, err, "count strings")
		return
	}

	status := map[string]interface{}{
		"version":        versionInfo,
		"state":          stateString(s.getState()),
		"uptime_seconds": int(s.Uptime().Seconds()),
		"record_count":   count,
		"clients":        s.clientCount(),
		"dropped_events": s.broadcastDrops.Load(),
		"goroutines":     runtime.NumGoroutine(),
		"database_path":  s.dbPath,
		"verbosity":      int(s.verbosity.Load()),
		"process":        s.processStats(),
	}

	writeJSON(w, http.StatusOK, status)
}

// HandleConfig returns the running configuration. GET /api/config.
// The config carries no secrets, so the whole tree is safe to expose.
func (s *CorpusServer) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentConfig().Map())
}

// processStats gathers RSS and CPU for this process. Failures degrade to a
// nil map; status must never 500 over metrics.
func (s *CorpusServer) processStats() map[string]interface{} {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.logger.Debugw("Process stats unavailable", "error", err)
		return nil
	}

	stats := make(map[string]interface{})
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		stats["rss_bytes"] = mem.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats["cpu_percent"] = cpu
	}
	if len(stats) == 0 {
		return nil
	}
	return stats
}
