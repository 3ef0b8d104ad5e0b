package hc

import (
	"encoding/json"
	"net/http"
	"time"
)

func Handler(version, commit string) http.Handler {
	t := time.Now()
	fn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"version": version,
			"commit":  commit,
			"uptime":  time.Since(t).String(),
		})
	}

	return http.HandlerFunc(fn)
}
