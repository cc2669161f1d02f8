// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service, and either render a page or redirect
// with a flash message. No business rules live here.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uint, bool) {
	return parseUint(chi.URLParam(r, "id"))
}

// formUint parses a numeric form field.
func formUint(r *http.Request, name string) (uint, bool) {
	return parseUint(r.FormValue(name))
}

// formInt parses a signed numeric form field, falling back to def when the
// field is absent or empty.
func formInt(r *http.Request, name string, def int) int {
	raw := r.FormValue(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func parseUint(raw string) (uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
