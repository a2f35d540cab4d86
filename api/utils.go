package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/journal"
)

// filterFromQuery reads from, to, symbol, market, side and match.
func filterFromQuery(r *http.Request) analytics.Filter {
	q := r.URL.Query()
	f := analytics.Filter{
		From:   q.Get("from"),
		To:     q.Get("to"),
		Symbol: q.Get("symbol"),
		Market: q.Get("market"),
		Side:   q.Get("side"),
	}
	if m := q.Get("match"); m != "" {
		// Unknown modes fall back to the service default.
		f.SymbolMatch, _ = analytics.ParseMatchMode(m)
	}
	return f
}

// windowParam returns the rolling window size, or 0 for the default.
func windowParam(r *http.Request) int {
	minWindow := 1
	return getIntParam(r, "window", 0, &minWindow, nil)
}

// getIntParam retrieves an integer query parameter with default value and optional range validation
func getIntParam(r *http.Request, key string, defaultVal int, minVal, maxVal *int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}

	if minVal != nil && val < *minVal {
		return defaultVal
	}
	if maxVal != nil && val > *maxVal {
		return defaultVal
	}

	return val
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// respondWithError logs the error and sends a JSON error response.
// message is what the client sees; err stays in the log.
func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string, err error) {
	ctx := r.Context()
	switch {
	case code >= 500:
		logger.ErrorWithErr(ctx, "api error", err, "status", code, "path", r.URL.Path)
	case err != nil:
		logger.Debug(ctx, "api request rejected", "status", code, "path", r.URL.Path, "error", err)
	}
	respondJSON(w, code, map[string]string{"error": message})
}

// writeError maps store errors onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		respondWithError(w, r, http.StatusNotFound, "not found", err)
	case journal.IsValidation(err):
		var v *journal.ValidationError
		errors.As(err, &v)
		respondWithError(w, r, http.StatusBadRequest, v.Error(), err)
	default:
		respondWithError(w, r, http.StatusInternalServerError, "internal error", err)
	}
}
