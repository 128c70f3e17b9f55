package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/pagination"
)

// queryValues holds query parameters keyed by lower-cased name so that
// PageNumber, pagenumber and pageNumber are equivalent.
type queryValues map[string]string

func parseQuery(r *http.Request) queryValues {
	q := queryValues{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			q[strings.ToLower(k)] = strings.TrimSpace(v[0])
		}
	}
	return q
}

func (q queryValues) str(name string) string {
	return q[strings.ToLower(name)]
}

func (q queryValues) intPtr(name string) (*int, error) {
	raw := q.str(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &n, nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (q queryValues) timePtr(name string) (*time.Time, error) {
	raw := q.str(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", name)
}

func (q queryValues) page() (pagination.Params, error) {
	number, err := q.intPtr("PageNumber")
	if err != nil {
		return pagination.Params{}, err
	}
	size, err := q.intPtr("PageSize")
	if err != nil {
		return pagination.Params{}, err
	}
	var p pagination.Params
	if number != nil {
		p.PageNumber = *number
	}
	if size != nil {
		p.PageSize = *size
	}
	return p.Normalize(), nil
}

// idParam reads the {id} route parameter.
func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
