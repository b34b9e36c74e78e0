package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"BistSentinel/internal/model"
	"BistSentinel/internal/portfolio"
	"BistSentinel/internal/scanner"
	"BistSentinel/internal/scheduler"
)

// Server exposes the scanner, alerts, market data and portfolio over HTTP.
type Server struct {
	sched *scheduler.Scheduler
	hub   *Hub
}

// NewServer creates the HTTP API and subscribes its websocket hub to scans.
func NewServer(s *scheduler.Scheduler) *Server {
	srv := &Server{sched: s}
	srv.hub = NewHub(func() any {
		r := s.Scanner.Store().Last()
		return &r
	})
	s.Listeners = append(s.Listeners, srv.hub.OnScan)
	return srv
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, "healthy")
	})
	r.Get("/ws", s.hub.Handle)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Get("/results", s.handleResults)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/market", s.handleMarket)
		r.Get("/chart/{ticker}", s.handleChart)
		r.Get("/portfolio", s.handleGetPortfolio)
		r.Post("/portfolio", s.handleAddPosition)
		r.Delete("/portfolio/{ticker}", s.handleRemovePosition)
	})
	return r
}

type resultsResponse struct {
	Report  model.ScanReport `json:"report"`
	Summary scanner.Summary  `json:"summary"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	report, _, err := s.sched.RunScan(r.Context())
	if errors.Is(err, model.ErrScanInProgress) {
		WriteError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, resultsResponse{Report: *report, Summary: scanner.Summarize(report.Results)})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	report := s.sched.Scanner.Store().Last()
	summary := scanner.Summarize(report.Results)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		report.Results = scanner.Top(report.Results, n)
	}
	WriteJSON(w, http.StatusOK, resultsResponse{Report: report, Summary: summary})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	events := []model.AlertEvent{}
	if s.sched.Alerts != nil {
		events = append(events, s.sched.Alerts.Recent()...)
	}
	WriteJSON(w, http.StatusOK, events)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	if s.sched.Market == nil {
		WriteError(w, http.StatusServiceUnavailable, "market data not configured")
		return
	}
	sum, err := s.sched.Market.Summary(r.Context())
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, sum)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = "6mo"
	}
	chart, err := s.sched.Scanner.Chart(r.Context(), chi.URLParam(r, "ticker"), rng)
	switch {
	case errors.Is(err, model.ErrInvalidConfig):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrDataUnavailable):
		WriteError(w, http.StatusNotFound, err.Error())
	case err != nil:
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		WriteJSON(w, http.StatusOK, chart)
	}
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.sched.Valuation(r.Context()))
}

type addPositionRequest struct {
	Ticker   string          `json:"ticker"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	var req addPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pos, err := s.sched.Portfolio.Add(req.Ticker, req.Quantity, req.Price)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, pos)
}

func (s *Server) handleRemovePosition(w http.ResponseWriter, r *http.Request) {
	err := s.sched.Portfolio.Remove(chi.URLParam(r, "ticker"))
	if errors.Is(err, portfolio.ErrNotHeld) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
