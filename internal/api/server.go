package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"eve-hauler/internal/config"
	"eve-hauler/internal/db"
	"eve-hauler/internal/engine"
	"eve-hauler/internal/esi"
	"eve-hauler/internal/logger"
)

// Server is the HTTP API server that connects the ESI client, haul engine,
// and database.
type Server struct {
	mu     sync.RWMutex
	cfg    *config.Config
	esi    *esi.Client
	db     *db.DB
	hauler *engine.Hauler
}

// NewServer creates a Server with the given config, ESI client, and database.
func NewServer(cfg *config.Config, esiClient *esi.Client, database *db.DB) *Server {
	return &Server{
		cfg:    cfg,
		esi:    esiClient,
		db:     database,
		hauler: engine.NewHauler(esiClient, esiClient, esiClient),
	}
}

// Handler returns the HTTP handler with all API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("POST /api/hauling/station", s.handleHaulStation)
	mux.HandleFunc("POST /api/hauling/region", s.handleHaulRegion)
	mux.HandleFunc("POST /api/hauling/nearby", s.handleHaulNearby)
	mux.HandleFunc("GET /api/watchlist", s.handleGetWatchlist)
	mux.HandleFunc("POST /api/watchlist", s.handleAddWatchlist)
	mux.HandleFunc("PUT /api/watchlist/{typeID}", s.handleUpdateWatchlist)
	mux.HandleFunc("DELETE /api/watchlist/{typeID}", s.handleDeleteWatchlist)
	mux.HandleFunc("GET /api/scan/history", s.handleGetHistory)
	mux.HandleFunc("GET /api/scan/history/{id}", s.handleGetHistoryByID)
	mux.HandleFunc("GET /api/scan/history/{id}/results", s.handleGetHistoryResults)
	mux.HandleFunc("DELETE /api/scan/history/{id}", s.handleDeleteHistory)
	mux.HandleFunc("DELETE /api/scan/history", s.handleClearHistory)
	mux.HandleFunc("GET /api/alerts/history", s.handleGetAlertHistory)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// haulError maps engine errors onto HTTP status codes: malformed requests
// are the caller's fault, everything else is ours.
func haulError(w http.ResponseWriter, err error) {
	if engine.IsValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"esi":    s.esi.HealthCheck(),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid config payload: "+err.Error())
		return
	}

	s.mu.Lock()
	*s.cfg = cfg
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.SaveConfig(&cfg); err != nil {
			logger.Warn("Config", fmt.Sprintf("Persist failed: %v", err))
		}
	}
	writeJSON(w, http.StatusOK, &cfg)
}

// locationRequest is the wire form of an engine.Location.
type locationRequest struct {
	RegionID   int32  `json:"region_id"`
	StationID  int64  `json:"station_id"`
	Preference string `json:"preference"`
	Name       string `json:"name"`
}

// haulRequest is one haul query. Constraint fields are pointers so absent
// values fall back to the stored config; zero is a legitimate constraint.
type haulRequest struct {
	From         locationRequest   `json:"from"`
	To           locationRequest   `json:"to"`
	Destinations []locationRequest `json:"destinations"`

	MinProfit        *float64 `json:"min_profit"`
	MinROI           *float64 `json:"min_roi"`
	MaxBudget        *float64 `json:"max_budget"`
	CargoCapacity    *float64 `json:"cargo_capacity"`
	SalesTaxPercent  *float64 `json:"sales_tax_percent"`
	BrokerFeePercent *float64 `json:"broker_fee_percent"`

	SortBy     string `json:"sort_by"`
	MaxResults int    `json:"max_results"`
}

func (r locationRequest) toLocation(defaultPreference string) engine.Location {
	pref := r.Preference
	if pref == "" {
		pref = defaultPreference
	}
	return engine.Location{
		RegionID:   r.RegionID,
		StationID:  r.StationID,
		Preference: pref,
		Name:       r.Name,
	}
}

// haulParams materializes a request against the stored config defaults.
func (s *Server) haulParams(req haulRequest) engine.HaulParams {
	s.mu.RLock()
	cfg := *s.cfg
	s.mu.RUnlock()

	pick := func(override *float64, fallback float64) float64 {
		if override != nil {
			return *override
		}
		return fallback
	}

	return engine.HaulParams{
		From: req.From.toLocation(cfg.FromPreference),
		To:   req.To.toLocation(cfg.ToPreference),
		Constraints: engine.Constraints{
			MinProfit:     pick(req.MinProfit, cfg.MinProfit),
			MinROI:        pick(req.MinROI, cfg.MinROI),
			MaxBudget:     pick(req.MaxBudget, cfg.MaxBudget),
			MaxCargo:      pick(req.CargoCapacity, cfg.CargoCapacity),
			SalesTaxRate:  pick(req.SalesTaxPercent, cfg.SalesTaxPercent) / 100,
			BrokerFeeRate: pick(req.BrokerFeePercent, cfg.BrokerFeePercent) / 100,
		},
		SortBy:     req.SortBy,
		MaxResults: req.MaxResults,
	}
}

func (s *Server) handleHaulStation(w http.ResponseWriter, r *http.Request) {
	var req haulRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.From.StationID == 0 || req.To.StationID == 0 {
		writeError(w, http.StatusBadRequest, "station hauling requires a station on both ends")
		return
	}
	s.runHaul(w, "station", s.haulParams(req))
}

func (s *Server) handleHaulRegion(w http.ResponseWriter, r *http.Request) {
	var req haulRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	s.runHaul(w, "region", s.haulParams(req))
}

func (s *Server) handleHaulNearby(w http.ResponseWriter, r *http.Request) {
	var req haulRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	params := s.haulParams(req)
	dests := make([]engine.Location, 0, len(req.Destinations))
	for _, d := range req.Destinations {
		dests = append(dests, d.toLocation(params.To.Preference))
	}

	results, err := s.hauler.HaulMulti(params.From, dests, params)
	if err != nil {
		haulError(w, err)
		return
	}
	s.recordScan("nearby", params.From, params.To, results)
	writeJSON(w, http.StatusOK, results)
}

// runHaul executes the query, records history, evaluates alerts, and
// writes the response.
func (s *Server) runHaul(w http.ResponseWriter, kind string, params engine.HaulParams) {
	results, err := s.hauler.Haul(params)
	if err != nil {
		haulError(w, err)
		return
	}
	scanID := s.recordScan(kind, params.From, params.To, results)
	s.checkAlerts(results, scanID)
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) recordScan(kind string, from, to engine.Location, results []engine.Record) int64 {
	if s.db == nil {
		return 0
	}
	return s.db.SaveScan(kind, from.Key(), to.Key(), results)
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.GetWatchlist())
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	var item config.WatchlistItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid watchlist item: "+err.Error())
		return
	}
	if item.TypeID == 0 {
		writeError(w, http.StatusBadRequest, "type_id is required")
		return
	}
	if item.TypeName == "" {
		item.TypeName = s.esi.ItemInfo(item.TypeID).Name
	}
	if err := s.db.AddWatchlistItem(item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateWatchlist(w http.ResponseWriter, r *http.Request) {
	typeID, err := strconv.ParseInt(r.PathValue("typeID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid type ID")
		return
	}
	var item config.WatchlistItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid watchlist item: "+err.Error())
		return
	}
	item.TypeID = int32(typeID)
	if err := s.db.UpdateWatchlistItem(item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	typeID, err := strconv.ParseInt(r.PathValue("typeID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid type ID")
		return
	}
	if err := s.db.DeleteWatchlistItem(int32(typeID)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, s.db.GetScans(limit))
}

func (s *Server) handleGetHistoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scan ID")
		return
	}
	entry, ok := s.db.GetScan(id)
	if !ok {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleGetHistoryResults(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scan ID")
		return
	}
	writeJSON(w, http.StatusOK, s.db.GetScanResults(id))
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scan ID")
		return
	}
	if err := s.db.DeleteScan(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.db.ClearScans(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAlertHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, s.db.GetAlertHistory(limit))
}
