package handlers

import (
	"database/sql"
	"net/http"
)

// Health reports liveness and database reachability.
type Health struct {
	db *sql.DB
}

// NewHealth creates a new Health handler.
func NewHealth(db *sql.DB) *Health {
	return &Health{db: db}
}

// Check pings the database and reports overall status.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
