package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (document stores, RedisClient, EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks holds the dependencies probed by the health endpoint. A nil
// checker is reported as "disabled" and does not degrade the status.
type HealthChecks struct {
	Backend  string // store backend name, reported as is
	Version  string
	Store    HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Backend  string `json:"store_backend,omitempty"`
	Store    string `json:"store"`
	Redis    string `json:"redis"`
	EventBus string `json:"event_bus"`
}

// HealthHandler probes every checker in parallel and answers 503 when any
// of them fails.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Version: checks.Version, Backend: checks.Backend}
		targets := []struct {
			checker HealthChecker
			result  *string
		}{
			{checks.Store, &resp.Store},
			{checks.Redis, &resp.Redis},
			{checks.EventBus, &resp.EventBus},
		}

		var wg sync.WaitGroup
		for _, t := range targets {
			wg.Add(1)
			go func() {
				defer wg.Done()
				*t.result = probe(ctx, t.checker)
			}()
		}
		wg.Wait()

		status := http.StatusOK
		for _, t := range targets {
			if *t.result == "unreachable" {
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		JSON(w, status, resp)
	}
}

func probe(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return "disabled"
	}
	if err := c.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "ok"
}
