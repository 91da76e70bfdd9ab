package middleware

import (
	"net/http"
	"strings"
)

// MaintenanceChecker reports whether the storefront is in maintenance mode.
// The settings package provides one backed by its TTL cache.
type MaintenanceChecker func(r *http.Request) bool

// Maintenance redirects page routes to /maintenance while the global flag is
// set. API routes, admin routes, static assets and the maintenance page
// itself stay reachable so the back office can switch the flag off again.
func Maintenance(inMaintenance MaintenanceChecker, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if maintenanceExempt(r.URL.Path) || !inMaintenance(r) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/maintenance", http.StatusTemporaryRedirect)
	})
}

func maintenanceExempt(path string) bool {
	switch {
	case path == "/maintenance", path == "/health":
		return true
	case strings.HasPrefix(path, "/api/"),
		strings.HasPrefix(path, "/admin"),
		strings.HasPrefix(path, "/static/"):
		return true
	}
	return false
}
