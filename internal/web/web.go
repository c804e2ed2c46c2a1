package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"freeslot/internal/config"
	"freeslot/internal/freetime"
	"freeslot/internal/ics"
	appLog "freeslot/internal/log"
	"freeslot/internal/model"
)

// docCacheTTL bounds how stale the cached calendar document may get before a
// request triggers a re-fetch. The cron refresh normally keeps it warm.
const docCacheTTL = 15 * time.Minute

// Server provides the HTTP API for free-time queries.
type Server struct {
	cfg     *config.Config
	mux     *http.ServeMux
	fetcher *ics.Fetcher

	// Cached parsed calendar document so that repeated queries do not
	// re-fetch and re-parse the ICS payload.
	docMu     sync.RWMutex
	doc       *ics.Document
	docLoaded time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		fetcher: ics.NewFetcher(cfg.CacheDir),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler, wrapped in basic auth when
// credentials are configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="freeslot", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/freetimes", s.handleFreeTimes)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// freeTimesResponse is the JSON response shape for /api/freetimes.
type freeTimesResponse struct {
	RangeStart    string   `json:"range_start"`
	RangeEnd      string   `json:"range_end"`
	TimezoneLabel string   `json:"timezone_label"`
	Days          []dayDTO `json:"days"`
}

// dayDTO is a JSON-friendly view of one day's free intervals.
type dayDTO struct {
	Date      string           `json:"date"`
	Free      []model.Interval `json:"free"`
	Formatted string           `json:"formatted"`
}

// handleFreeTimes computes free intervals over a date range.
//
// GET /api/freetimes?start=2026-06-11&end=2026-06-14&work_start=9&work_end=17
// &buffer_before=15&buffer_after=15
//
// Missing parameters fall back to config defaults; start defaults to
// tomorrow and end to start+3 days.
func (s *Server) handleFreeTimes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	startDate, err := parseDateDefault(q.Get("start"), tomorrow)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date: "+err.Error())
		return
	}
	endDate, err := parseDateDefault(q.Get("end"), startDate.AddDate(0, 0, 3))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date: "+err.Error())
		return
	}

	params := freetime.Params{
		StartDate:     startDate,
		EndDate:       endDate,
		WorkStartHour: parseIntDefault(q.Get("work_start"), s.cfg.WorkStartHour),
		WorkEndHour:   parseIntDefault(q.Get("work_end"), s.cfg.WorkEndHour),
		BufferBefore:  time.Duration(parseIntDefault(q.Get("buffer_before"), s.cfg.BufferBeforeMin)) * time.Minute,
		BufferAfter:   time.Duration(parseIntDefault(q.Get("buffer_after"), s.cfg.BufferAfterMin)) * time.Minute,
	}

	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.document(ctx)
	if err != nil {
		appLog.Error("api freetimes: calendar load failed", err)
		var fetchErr *ics.FetchError
		var parseErr *ics.ParseError
		switch {
		case errors.As(err, &fetchErr):
			writeError(w, http.StatusBadGateway, "failed to fetch calendar; check if the ICS URL is valid and accessible")
		case errors.As(err, &parseErr):
			writeError(w, http.StatusUnprocessableEntity, "calendar document is not valid iCalendar")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load calendar")
		}
		return
	}

	result, err := freetime.Compute(doc, params)
	if err != nil {
		appLog.Error("api freetimes: compute failed", err)
		writeError(w, http.StatusInternalServerError, "failed to compute free times")
		return
	}

	days := make([]dayDTO, 0, len(result))
	for _, day := range result {
		free := day.Free
		if free == nil {
			free = []model.Interval{}
		}
		days = append(days, dayDTO{
			Date:      day.Date.Format("2006-01-02"),
			Free:      free,
			Formatted: freetime.FormatDay(day, s.cfg.TimezoneLabel),
		})
	}

	writeJSON(w, http.StatusOK, freeTimesResponse{
		RangeStart:    startDate.Format("2006-01-02"),
		RangeEnd:      endDate.Format("2006-01-02"),
		TimezoneLabel: s.cfg.TimezoneLabel,
		Days:          days,
	})
}

// document returns the cached calendar document, loading it when missing or
// stale. Failures leave any previous document in place.
func (s *Server) document(ctx context.Context) (*ics.Document, error) {
	s.docMu.RLock()
	doc := s.doc
	loaded := s.docLoaded
	s.docMu.RUnlock()
	if doc != nil && time.Since(loaded) < docCacheTTL {
		return doc, nil
	}
	return s.refreshDocument(ctx)
}

// refreshDocument unconditionally re-loads the calendar and updates the cache.
func (s *Server) refreshDocument(ctx context.Context) (*ics.Document, error) {
	doc, err := ics.Load(ctx, s.fetcher, ics.Source{
		ID:  s.cfg.ICS.ID,
		URL: s.cfg.ICS.URL,
	})
	if err != nil {
		return nil, err
	}

	s.docMu.Lock()
	s.doc = doc
	s.docLoaded = time.Now()
	s.docMu.Unlock()

	appLog.Info("calendar document refreshed",
		"id", s.cfg.ICS.ID,
		"events", doc.EventCount(),
		"from_cache", doc.FromCache,
	)
	return doc, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseDateDefault(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
