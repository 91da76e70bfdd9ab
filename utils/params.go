package utils

import (
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Brand    string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return QueryOptions{
		Page:     page,
		Limit:    limit,
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}
}

// ParsePagination returns skip/limit suitable for Mongo Find options.
func ParsePagination(r *http.Request, def, max int) (int64, int64) {
	opts := ParseQueryOptions(r)
	limit := opts.Limit
	if limit > max {
		limit = max
	}
	if limit < 1 {
		limit = def
	}
	skip := (opts.Page - 1) * limit
	return int64(skip), int64(limit)
}
