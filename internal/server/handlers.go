package server

import (
	"net/http"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Derived views
	mux.HandleFunc("/api/market-info", s.handleMarketInfo)
	mux.HandleFunc("/api/sector-info", s.handleSectorInfo)
	mux.HandleFunc("/api/tickers", s.handleTickers)
	mux.HandleFunc("/api/trade-dates", s.handleTradeDates)
	mux.HandleFunc("/api/symbol-status", s.handleSymbolStatus)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

func (s *Server) handleMarketInfo(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	days, ok := queryInt(r, "days")
	if !ok {
		WriteError(w, http.StatusBadRequest, "days must be an integer")
		return
	}

	req := models.MarketInfoRequest{
		Date: r.URL.Query().Get("date"),
		Days: days,
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	infos, err := s.service.GetMarketInfo(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Msg("market info failed")
		WriteError(w, http.StatusInternalServerError, "failed to build market info")
		return
	}
	if infos == nil {
		infos = []*models.MarketInfo{}
	}
	WriteJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSectorInfo(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req := models.SectorInfoRequest{
		Date:     r.URL.Query().Get("date"),
		Exchange: models.Exchange(r.URL.Query().Get("exchange")),
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	infos, err := s.service.GetSectorInfo(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Msg("sector info failed")
		WriteError(w, http.StatusInternalServerError, "failed to build sector info")
		return
	}
	if infos == nil {
		infos = []*models.SectorInfo{}
	}
	WriteJSON(w, http.StatusOK, infos)
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	days, ok := queryInt(r, "days")
	if !ok {
		WriteError(w, http.StatusBadRequest, "days must be an integer")
		return
	}

	req := models.TickersRequest{
		Date:     r.URL.Query().Get("date"),
		Type:     models.TickerType(r.URL.Query().Get("type")),
		Exchange: models.Exchange(r.URL.Query().Get("exchange")),
		Days:     days,
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	grouped, err := s.service.GetTickersByDate(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Msg("tickers lookup failed")
		WriteError(w, http.StatusInternalServerError, "failed to load tickers")
		return
	}
	if grouped == nil {
		grouped = &models.TickersByDate{Dates: []string{}, Tickers: map[string][]*models.Ticker{}}
	}
	WriteJSON(w, http.StatusOK, grouped)
}

func (s *Server) handleTradeDates(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	days, ok := queryInt(r, "days")
	if !ok {
		WriteError(w, http.StatusBadRequest, "days must be an integer")
		return
	}

	req := models.TradeDatesRequest{
		Date: r.URL.Query().Get("date"),
		Days: days,
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	dates, err := s.service.GetLastTradeDates(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Msg("trade dates lookup failed")
		WriteError(w, http.StatusInternalServerError, "failed to load trade dates")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string][]string{"dates": dates})
}

func (s *Server) handleSymbolStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	days, ok := queryInt(r, "days")
	if !ok {
		WriteError(w, http.StatusBadRequest, "days must be an integer")
		return
	}

	req := models.SymbolStatusRequest{
		Date:   r.URL.Query().Get("date"),
		Symbol: r.URL.Query().Get("symbol"),
		Days:   days,
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	status, err := s.service.GetSymbolStatus(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Str("symbol", req.Symbol).Msg("symbol status failed")
		WriteError(w, http.StatusInternalServerError, "failed to classify symbol")
		return
	}
	WriteJSON(w, http.StatusOK, status)
}
