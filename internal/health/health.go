package health

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"barbearia-backend/internal/transport"
)

// Check is a named dependency check for the readiness endpoint.
type Check struct {
	Name  string
	Check func(context.Context) error
}

type Handler struct {
	message string
	checks  []Check
	timeout time.Duration
	log     *slog.Logger
}

func NewHandler(message string, log *slog.Logger, checks ...Check) *Handler {
	return &Handler{
		message: message,
		checks:  checks,
		timeout: 2 * time.Second,
		log:     log,
	}
}

func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": h.message,
	})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures = map[string]string{}
	)
	for _, c := range h.checks {
		if c.Check == nil {
			continue
		}
		wg.Add(1)
		go func(c Check) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
			defer cancel()
			if err := c.Check(ctx); err != nil {
				mu.Lock()
				failures[c.Name] = err.Error()
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()

	if len(failures) > 0 {
		h.log.Warn("readiness: dependency down", slog.Any("checks", failures))
		transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"checks": failures,
		})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
