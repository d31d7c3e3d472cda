// Package http exposes the search read model over REST: per-entity search
// endpoints, direct product lookup, suggestions, and the admin index
// operations.
package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httputil"
)

// writeParamError writes the 400 response for a rejected query parameter.
func writeParamError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:    "INVALID_PARAMETER",
			Message: message,
		},
	})
}

// parsePagination parses page and per_page strictly: out-of-range values are
// rejected, not silently clamped. Absent values get the defaults.
func parsePagination(w http.ResponseWriter, r *http.Request) (page, perPage int, ok bool) {
	page, perPage = 1, query.DefaultPerPage

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeParamError(w, "page must be a positive integer")
			return 0, 0, false
		}
		page = n
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > query.MaxPerPage {
			writeParamError(w, fmt.Sprintf("per_page must be between 1 and %d", query.MaxPerPage))
			return 0, 0, false
		}
		perPage = n
	}
	return page, perPage, true
}

// parseSort validates the sort mode against the entity's accepted modes.
func parseSort(w http.ResponseWriter, r *http.Request, valid []string) (string, bool) {
	v := r.URL.Query().Get("sort")
	if v == "" {
		return "", true
	}
	for _, s := range valid {
		if v == s {
			return v, true
		}
	}
	writeParamError(w, "sort must be one of: "+joinSorts(valid))
	return "", false
}

func joinSorts(valid []string) string {
	out := ""
	for i, s := range valid {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// parseInt64Param parses an optional non-negative int64 parameter.
func parseInt64Param(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeParamError(w, name+" must be a valid number")
		return nil, false
	}
	if n < 0 {
		writeParamError(w, name+" must not be negative")
		return nil, false
	}
	return &n, true
}

// parseIntParam parses an optional non-negative int parameter.
func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		writeParamError(w, name+" must be a valid number")
		return nil, false
	}
	if n < 0 {
		writeParamError(w, name+" must not be negative")
		return nil, false
	}
	return &n, true
}

// parseFloatParam parses an optional float parameter within [min, max].
func parseFloatParam(w http.ResponseWriter, r *http.Request, name string, min, max float64) (*float64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < min || n > max {
		writeParamError(w, fmt.Sprintf("%s must be a number between %g and %g", name, min, max))
		return nil, false
	}
	return &n, true
}

// parseBoolParam parses an optional boolean parameter.
func parseBoolParam(w http.ResponseWriter, r *http.Request, name string) (*bool, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		writeParamError(w, name+" must be true or false")
		return nil, false
	}
	return &b, true
}

// parseTimeParam parses an optional RFC 3339 timestamp parameter.
func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		writeParamError(w, name+" must be an RFC 3339 timestamp")
		return nil, false
	}
	return &t, true
}

// strParam returns an optional string parameter.
func strParam(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}
