package updates

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"velora/globals"
	"velora/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func TestServeWSRejectsMissingToken(t *testing.T) {
	handler := ServeWS(NewHub())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/updates/order:1", nil)
	handler(rec, req, httprouter.Params{{Key: "topic", Value: "order:1"}})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestServeWSAcceptsQueryToken(t *testing.T) {
	claims := middleware.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatal(err)
	}

	handler := ServeWS(NewHub())

	// Auth passes, then the upgrade fails because this is not a websocket
	// request; a 401 here would mean the token was not accepted.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/updates/order:1?token="+token, nil)
	handler(rec, req, httprouter.Params{{Key: "topic", Value: "order:1"}})

	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("valid token rejected with 401")
	}
}
