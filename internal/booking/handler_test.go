package booking

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barbearia-backend/internal/schedule"
	"barbearia-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T, repo *memoryRepo) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(NewManager(repo, defaultServices()), validation.New(), log)
	r := chi.NewRouter()
	r.Route("/api/appointments", func(r chi.Router) { h.Routes(r) })
	r.Get("/api/available-slots/{date}", h.AvailableSlots)
	return r
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bookingBody(serviceID, date, slot string) string {
	return `{"service_id":"` + serviceID + `","client_name":"Maria","client_phone":"11988887777",` +
		`"client_email":"maria@example.com","date":"` + date + `","time":"` + slot + `"}`
}

func decodeSlots(t *testing.T, rec *httptest.ResponseRecorder) []schedule.Slot {
	t.Helper()
	var slots []schedule.Slot
	if err := json.Unmarshal(rec.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode slots: %v", err)
	}
	return slots
}

func TestHandlerBookingFlow(t *testing.T) {
	router := newTestRouter(t, newMemoryRepo())

	rec := doRequest(router, http.MethodPost, "/api/appointments", bookingBody("svc-corte", "2026-03-10", "14:30"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Status != StatusConfirmed || created.ServiceName != "Corte de Cabelo" {
		t.Fatalf("unexpected appointment: %+v", created)
	}

	rec = doRequest(router, http.MethodGet, "/api/appointments/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/api/appointments", bookingBody("svc-barba", "2026-03-10", "14:30"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for taken slot, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPut, "/api/appointments/"+created.ID+"/cancel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on cancel, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/api/appointments", bookingBody("svc-barba", "2026-03-10", "14:30"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected rebooking to succeed, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodGet, "/api/appointments", "")
	var all []Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(all))
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	router := newTestRouter(t, newMemoryRepo())

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unknown service", bookingBody("missing", "2026-03-10", "09:00"), http.StatusNotFound},
		{"malformed json", `{"service_id":`, http.StatusUnprocessableEntity},
		{"missing client", `{"service_id":"svc-corte","date":"2026-03-10","time":"09:00"}`, http.StatusUnprocessableEntity},
		{"bad date", bookingBody("svc-corte", "10/03/2026", "09:00"), http.StatusUnprocessableEntity},
		{"bad time", bookingBody("svc-corte", "2026-03-10", "9h"), http.StatusUnprocessableEntity},
		{"off grid", bookingBody("svc-corte", "2026-03-10", "18:00"), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/appointments", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"detail"`) {
				t.Fatalf("expected detail in body: %s", rec.Body.String())
			}
		})
	}
}

func TestHandlerNotFound(t *testing.T) {
	router := newTestRouter(t, newMemoryRepo())

	if rec := doRequest(router, http.MethodGet, "/api/appointments/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodPut, "/api/appointments/nope/cancel", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("cancel: expected 404, got %d", rec.Code)
	}
}

func TestHandlerListFilters(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(t, repo)
	for _, slot := range []string{"09:00", "09:30"} {
		if rec := doRequest(router, http.MethodPost, "/api/appointments", bookingBody("svc-corte", "2026-03-10", slot)); rec.Code != http.StatusCreated {
			t.Fatalf("create: %d", rec.Code)
		}
	}
	if rec := doRequest(router, http.MethodPost, "/api/appointments", bookingBody("svc-corte", "2026-03-11", "09:00")); rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}

	rec := doRequest(router, http.MethodGet, "/api/appointments?date=2026-03-10", "")
	var items []Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 appointments on date, got %d", len(items))
	}

	if rec := doRequest(router, http.MethodGet, "/api/appointments?status=done", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status, got %d", rec.Code)
	}
}

func TestHandlerAvailableSlots(t *testing.T) {
	router := newTestRouter(t, newMemoryRepo())

	rec := doRequest(router, http.MethodGet, "/api/available-slots/2026-03-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	slots := decodeSlots(t, rec)
	if len(slots) != 18 || !slots[0].Available || slots[0].Time != "09:00" || slots[17].Time != "17:30" {
		t.Fatalf("unexpected grid: %+v", slots)
	}

	rec = doRequest(router, http.MethodPost, "/api/appointments", bookingBody("svc-corte", "2026-03-10", "14:30"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}
	var created Appointment
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	slots = decodeSlots(t, doRequest(router, http.MethodGet, "/api/available-slots/2026-03-10", ""))
	for _, s := range slots {
		if want := s.Time != "14:30"; s.Available != want {
			t.Fatalf("slot %s: expected available=%v after booking", s.Time, want)
		}
	}

	doRequest(router, http.MethodPut, "/api/appointments/"+created.ID+"/cancel", "")
	slots = decodeSlots(t, doRequest(router, http.MethodGet, "/api/available-slots/2026-03-10", ""))
	for _, s := range slots {
		if !s.Available {
			t.Fatalf("slot %s: expected free after cancel", s.Time)
		}
	}
}

func TestHandlerAvailableSlotsInvalidDate(t *testing.T) {
	router := newTestRouter(t, newMemoryRepo())
	rec := doRequest(router, http.MethodGet, "/api/available-slots/next-monday", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandlerCreateWithoutEmail(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(t, repo)

	body := `{"service_id":"svc-corte","client_name":"Maria","client_phone":"11988887777",` +
		`"client_email":"","date":"2026-03-10","time":"10:00"}`
	rec := doRequest(router, http.MethodPost, "/api/appointments", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ClientEmail != "" || repo.items[created.ID].ClientEmail != "" {
		t.Fatalf("expected empty email to be kept, got %+v", created)
	}

	body = `{"service_id":"svc-corte","client_name":"Maria","client_phone":"11988887777",` +
		`"date":"2026-03-10","time":"10:30"}`
	if rec := doRequest(router, http.MethodPost, "/api/appointments", body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 without email field, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerCreateIgnoresReadOnlyFields(t *testing.T) {
	router := newTestRouter(t, newMemoryRepo())

	body := `{"id":"client-chosen","service_name":"x","status":"cancelled","created_at":"2020-01-01T00:00:00Z",` +
		`"service_id":"svc-corte","client_name":"Maria","client_phone":"11988887777",` +
		`"client_email":"maria@example.com","date":"2026-03-10","time":"11:00"}`
	rec := doRequest(router, http.MethodPost, "/api/appointments", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "client-chosen" || created.Status != StatusConfirmed || created.ServiceName != "Corte de Cabelo" {
		t.Fatalf("expected server-owned fields to win, got %+v", created)
	}
}

func TestHandlerAvailableSlotsSeesBookingsCommittedBetweenReads(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(t, repo)

	slots := decodeSlots(t, doRequest(router, http.MethodGet, "/api/available-slots/2026-03-10", ""))
	for _, s := range slots {
		if !s.Available {
			t.Fatalf("slot %s: expected free on empty day", s.Time)
		}
	}

	repo.items["direct"] = Appointment{ID: "direct", ServiceID: "svc-corte", Date: "2026-03-10", Time: "15:00", Status: StatusConfirmed}

	slots = decodeSlots(t, doRequest(router, http.MethodGet, "/api/available-slots/2026-03-10", ""))
	for _, s := range slots {
		if want := s.Time != "15:00"; s.Available != want {
			t.Fatalf("slot %s: expected available=%v once the booking is stored", s.Time, want)
		}
	}
}
