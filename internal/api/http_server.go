package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"innkeep/internal/config"
	"innkeep/internal/domain"
	"innkeep/internal/export"
	"innkeep/internal/metrics"
	"innkeep/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the reservation API: room listing, availability checks,
// booking commits and an XLSX export.
type HTTPServer struct {
	cfg      config.APIConfig
	svc      domain.BookingService
	cache    domain.RoomsCache
	cacheTTL time.Duration
	logger   zerolog.Logger
	server   *http.Server
	auth     *HTTPAuth
}

func NewHTTPServer(cfg config.APIConfig, svc domain.BookingService, cache domain.RoomsCache, cacheTTL time.Duration, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		svc:      svc,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "api").Logger(),
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/rooms", srv.handleRooms)
	mux.HandleFunc("/api/v1/availability/check", srv.handleAvailabilityCheck)
	mux.HandleFunc("/api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("/api/v1/bookings/export", srv.handleExport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the full middleware chain. Used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("rooms")

	if s.cache != nil {
		if cached, err := s.cache.Get(r.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("rooms cache read error")
		} else if cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	}

	rooms, err := s.svc.ListRooms(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list rooms error")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payload, err := json.Marshal(map[string]any{"rooms": rooms})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(r.Context(), payload, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("rooms cache write error")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

type availabilityBody struct {
	RoomTypeID int64  `json:"type"`
	Amount     int    `json:"amount"`
	Checkin    string `json:"checkin"`
	Checkout   string `json:"checkout"`
}

func (s *HTTPServer) handleAvailabilityCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("availability_check")

	var body availabilityBody
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	checkin, checkout, err := parseInterval(body.Checkin, body.Checkout)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := s.svc.CheckAvailability(r.Context(), domain.AvailabilityRequest{
		RoomTypeID: body.RoomTypeID,
		Amount:     body.Amount,
		Checkin:    checkin,
		Checkout:   checkout,
	})
	if errors.Is(err, service.ErrIncompleteRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("availability check error")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.IncAvailabilityCheck(status)
	writeJSON(w, http.StatusOK, map[string]string{"available": status})
}

type bookingBody struct {
	RoomTypeID int64  `json:"type"`
	Amount     int    `json:"amount"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Checkin    string `json:"checkin"`
	Checkout   string `json:"checkout"`
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings")

	var body bookingBody
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	checkin, checkout, err := parseInterval(body.Checkin, body.Checkout)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.svc.CreateBooking(r.Context(), domain.BookingRequest{
		RoomTypeID: body.RoomTypeID,
		Amount:     body.Amount,
		Email:      strings.TrimSpace(body.Email),
		Name:       strings.TrimSpace(body.Name),
		Checkin:    checkin,
		Checkout:   checkout,
	})
	if errors.Is(err, service.ErrIncompleteRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("create booking error")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if result.BookingID != 0 {
		metrics.IncBookingCreated(body.Amount)
		if s.cache != nil {
			if err := s.cache.Clear(r.Context()); err != nil {
				s.logger.Warn().Err(err).Msg("rooms cache clear error")
			}
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings_export")

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date; expected YYYY-MM-DD")
		return
	}
	if from.IsZero() || to.IsZero() {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return
	}
	// Make "to" inclusive of the whole day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	rows, err := s.svc.ListBookingRows(r.Context(), from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("export rows error")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data, err := export.BookingsReport(rows, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("export render error")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filename := fmt.Sprintf("bookings_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseInterval accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func parseInterval(checkinRaw, checkoutRaw string) (time.Time, time.Time, error) {
	checkin, err := parseDate(checkinRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid checkin; expected RFC3339 or YYYY-MM-DD")
	}
	checkout, err := parseDate(checkoutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid checkout; expected RFC3339 or YYYY-MM-DD")
	}
	return checkin, checkout, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
