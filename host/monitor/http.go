package monitor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

// Router serves the monitor state:
//
//	GET /status      current Status
//	GET /log?n=20    the newest n debug lines (all when n is absent)
func (m *Monitor) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/status", m.serveStatus)
	r.Get("/log", m.serveLog)
	return r
}

func (m *Monitor) serveStatus(w http.ResponseWriter, r *http.Request) {
	m.writeJSON(w, m.Status())
}

func (m *Monitor) serveLog(w http.ResponseWriter, r *http.Request) {
	logs := m.Logs()
	if s := r.URL.Query().Get("n"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "n must be a non-negative integer", http.StatusBadRequest)
			return
		}
		if n < len(logs) {
			logs = logs[len(logs)-n:]
		}
	}
	m.writeJSON(w, logs)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Warn("response encode failed", zap.Error(err))
	}
}
