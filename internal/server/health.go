package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type UpstreamStatus interface {
	GetRateLimitInfo() api.RateLimitInfo
}

type HealthResponse struct {
	Database string            `json:"database"`
	Upstream api.RateLimitInfo `json:"upstream"`
}

// HealthHandler reports database reachability and the upstream limiter state.
// Only a failed database ping makes it unhealthy; a paused upstream is reported as is.
func HealthHandler(db Pinger, upstream UpstreamStatus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Database: "ok", Upstream: upstream.GetRateLimitInfo()}
		status := http.StatusOK
		if err := db.PingContext(r.Context()); err != nil {
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})
}
