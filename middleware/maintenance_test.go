package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaintenanceGate(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		path        string
		maintenance bool
		wantStatus  int
	}{
		{"page passes when off", "/shop", false, http.StatusOK},
		{"page redirected when on", "/shop", true, http.StatusTemporaryRedirect},
		{"api exempt", "/api/products", true, http.StatusOK},
		{"admin exempt", "/admin/api/orders", true, http.StatusOK},
		{"static exempt", "/static/productpic/x.jpg", true, http.StatusOK},
		{"maintenance page exempt", "/maintenance", true, http.StatusOK},
		{"health exempt", "/health", true, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			checker := func(*http.Request) bool { return tc.maintenance }
			h := Maintenance(checker, next)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusTemporaryRedirect {
				assert.Equal(t, "/maintenance", rec.Header().Get("Location"))
			}
		})
	}
}
