package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/liinahamari/Loggy/internal/query"
	"github.com/liinahamari/Loggy/internal/server/http/live"
)

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// parseInt parses a non-negative integer, falling back to def.
func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return def
}

// parseRequest reads page, size, the filter flags and expr from q.
func parseRequest(q url.Values, defaultSize int) (query.Request, error) {
	req := query.Request{
		Page:    parseInt(q.Get("page"), 0),
		Size:    parseInt(q.Get("size"), defaultSize),
		Filters: live.ParseFilters(q.Get("errors"), q.Get("no_lifecycle"), q.Get("non_main")),
	}
	expr, err := query.CompileExpr(q.Get("expr"))
	if err != nil {
		return query.Request{}, err
	}
	req.Expr = expr
	return req, nil
}
