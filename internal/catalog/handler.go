package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"barbearia-backend/internal/cache"
	"barbearia-backend/internal/httpx"
	"barbearia-backend/internal/middleware"
	"barbearia-backend/internal/transport"
	"barbearia-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

const (
	cachePrefix  = "services:"
	listCacheKey = cachePrefix + "all"
)

type Handler struct {
	manager  *Manager
	val      *validation.Validator
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewHandler(manager *Manager, val *validation.Validator, store cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Handler {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Handler{
		manager:  manager,
		val:      val,
		cache:    store,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	if cached, ok, err := h.cache.Get(r.Context(), listCacheKey); err == nil && ok {
		log.Debug("services list: cache hit")
		transport.WriteRaw(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.manager.List(ctx)
	if err != nil {
		log.Error("services list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := h.cache.Set(r.Context(), listCacheKey, payload, h.cacheTTL); err != nil {
			log.Warn("services list: cache set failed", slog.String("error", err.Error()))
		}
	}

	log.Info("services list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	req, ok := h.decodeUpsert(w, r, log, "services create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.manager.Create(ctx, req)
	if err != nil {
		log.Error("services create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	h.invalidate(r.Context(), log)

	log.Info("services create: ok", slog.String("service_id", item.ID))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.manager.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("services get: not found", slog.String("service_id", id))
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
			return
		}
		log.Error("services get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	req, ok := h.decodeUpsert(w, r, log, "services update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.manager.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("services update: not found", slog.String("service_id", id))
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
			return
		}
		log.Error("services update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	h.invalidate(r.Context(), log)

	log.Info("services update: ok", slog.String("service_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.manager.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("services delete: not found", slog.String("service_id", id))
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
			return
		}
		log.Error("services delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	h.invalidate(r.Context(), log)

	log.Info("services delete: ok", slog.String("service_id", id))
	transport.WriteMessage(w, http.StatusOK, "service deleted")
}

func (h *Handler) decodeUpsert(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (UpsertRequest, bool) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn(op+": invalid json", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusUnprocessableEntity, "invalid json", nil)
		return UpsertRequest{}, false
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusUnprocessableEntity, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return UpsertRequest{}, false
	}
	return req, true
}

func (h *Handler) invalidate(ctx context.Context, log *slog.Logger) {
	if err := h.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		log.Warn("services cache: invalidate failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
