package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/charts"
	"github.com/rustyeddy/tradejournal/journal"
)

// handleHealth returns the health status of the API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tradeRequest is the body of POST /api/trades. Times accept the same
// loose formats as CSV imports.
type tradeRequest struct {
	Symbol     string   `json:"symbol"`
	Market     string   `json:"market"`
	Side       string   `json:"side"`
	ExecutedAt string   `json:"executedAt"`
	EntryPrice *float64 `json:"entryPrice"`
	ExitPrice  *float64 `json:"exitPrice"`
	Size       *float64 `json:"size"`
	PnL        *float64 `json:"pnl"`
	Notes      string   `json:"notes"`
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request, owner string) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PnL == nil {
		respondWithError(w, r, http.StatusBadRequest, "invalid pnl: is required", nil)
		return
	}
	side, err := journal.ParseSide(req.Side)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t := journal.Trade{
		OwnerID:    owner,
		Symbol:     req.Symbol,
		Market:     req.Market,
		Side:       side,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Size:       req.Size,
		PnL:        *req.PnL,
		Notes:      req.Notes,
	}
	if strings.TrimSpace(req.ExecutedAt) != "" {
		at, ok := analytics.ParseInstant(req.ExecutedAt)
		if !ok {
			respondWithError(w, r, http.StatusBadRequest, "invalid executedAt", nil)
			return
		}
		t.ExecutedAt = at
	}

	rec, err := s.store.AddTrade(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request, owner string) {
	trades, err := s.reports.Trades(r.Context(), owner, filterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"trades": trades,
		"count":  len(trades),
	})
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request, owner string) {
	t, err := s.store.GetTrade(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request, owner string) {
	if err := s.store.DeleteTrade(r.Context(), owner, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type previewRequest struct {
	Side       string   `json:"side"`
	EntryPrice *float64 `json:"entryPrice"`
	ExitPrice  *float64 `json:"exitPrice"`
	Size       *float64 `json:"size"`
	Multiplier *float64 `json:"multiplier"`
}

// handlePreviewPnl suggests a PnL from prices. Incomplete input yields 0.
func (s *Server) handlePreviewPnl(w http.ResponseWriter, r *http.Request, owner string) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	side := journal.Side(strings.ToUpper(strings.TrimSpace(req.Side)))
	pnl := journal.ComputeRealizedPnl(side, req.EntryPrice, req.ExitPrice, req.Size, req.Multiplier)
	respondJSON(w, http.StatusOK, map[string]float64{"pnl": pnl})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request, owner string) {
	acct, err := s.store.EnsureAccount(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, acct)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, owner string) {
	var req struct {
		InitialBalance *float64 `json:"initialBalance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InitialBalance == nil {
		respondWithError(w, r, http.StatusBadRequest, "invalid initialBalance: is required", nil)
		return
	}
	if err := s.store.UpdateInitialBalance(r.Context(), owner, *req.InitialBalance); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleGetAccount(w, r, owner)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, owner string) {
	res, err := s.reports.Analytics(r.Context(), owner, filterFromQuery(r), windowParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, owner string) {
	d, err := s.reports.Dashboard(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request, owner string) {
	var ref analytics.MonthRef
	if m := r.URL.Query().Get("month"); m != "" {
		var err error
		if ref, err = analytics.ParseMonthRef(m); err != nil {
			respondWithError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}
	v, err := s.reports.Calendar(r.Context(), owner, filterFromQuery(r), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// handleChart serves /api/charts/{kind}.png for the filtered sample.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, owner string) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		respondWithError(w, r, http.StatusNotFound, "not found", nil)
		return
	}
	kind, err := charts.ParseKind(name)
	if err != nil {
		respondWithError(w, r, http.StatusNotFound, err.Error(), nil)
		return
	}

	res, err := s.reports.Analytics(r.Context(), owner, filterFromQuery(r), windowParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	img, err := charts.Render(kind, res.Report)
	if errors.Is(err, charts.ErrNoData) {
		respondWithError(w, r, http.StatusNotFound, "no data to chart", nil)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, "failed to render chart", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(img)
}
