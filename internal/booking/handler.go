package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"barbearia-backend/internal/httpx"
	"barbearia-backend/internal/middleware"
	"barbearia-backend/internal/schedule"
	"barbearia-backend/internal/transport"
	"barbearia-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

// Handler serves appointments and slot availability. Availability is read
// from the store on every call so a committed booking is visible at once.
type Handler struct {
	manager *Manager
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(manager *Manager, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		val:     val,
		log:     log,
	}
}

// Routes mounts the appointment endpoints; createMW wraps only the booking
// call, e.g. with a rate limiter.
func (h *Handler) Routes(r chi.Router, createMW ...func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.With(createMW...).Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/cancel", h.Cancel)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	filter := ListFilter{
		Date:   strings.TrimSpace(r.URL.Query().Get("date")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
	if err := h.val.Struct(filter); err != nil {
		log.Warn("appointments list: invalid query")
		transport.WriteError(w, http.StatusUnprocessableEntity, "invalid query", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.manager.List(ctx, filter)
	if err != nil {
		log.Error("appointments list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("appointments list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("appointments create: invalid json", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusUnprocessableEntity, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("appointments create: validation error")
		transport.WriteError(w, http.StatusUnprocessableEntity, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.manager.Create(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrServiceNotFound):
			log.Warn("appointments create: service not found", slog.String("service_id", req.ServiceID))
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
		case errors.Is(err, ErrSlotTaken):
			log.Warn("appointments create: slot taken", slog.String("date", req.Date), slog.String("time", req.Time))
			transport.WriteError(w, http.StatusBadRequest, "slot not available", nil)
		default:
			log.Error("appointments create: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}
	log.Info("appointments create: booked",
		slog.String("appointment_id", item.ID),
		slog.String("service_id", item.ServiceID),
		slog.String("date", item.Date),
		slog.String("time", item.Time),
	)
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.manager.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("appointments get: not found", slog.String("appointment_id", id))
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("appointments get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.manager.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("appointments cancel: not found", slog.String("appointment_id", id))
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("appointments cancel: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	log.Info("appointments cancel: ok", slog.String("appointment_id", id), slog.String("date", item.Date))
	transport.WriteMessage(w, http.StatusOK, "appointment cancelled")
}

func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	date := strings.TrimSpace(chi.URLParam(r, "date"))
	if err := h.val.Var(date, "required,date"); err != nil {
		log.Warn("available slots: invalid date", slog.String("date", date))
		transport.WriteError(w, http.StatusUnprocessableEntity, "invalid date", map[string]string{"date": "date"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slots, err := h.manager.AvailableSlots(ctx, date)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidDate) {
			transport.WriteError(w, http.StatusUnprocessableEntity, "invalid date", nil)
			return
		}
		log.Error("available slots: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("available slots: ok", slog.String("date", date), slog.Int("free", countFree(slots)))
	transport.WriteJSON(w, http.StatusOK, slots)
}

func countFree(slots []schedule.Slot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
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
