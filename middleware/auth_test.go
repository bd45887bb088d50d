package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("test-secret-key")

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := AuthMiddleware(testKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called without a token")
	}))

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	handler := AuthMiddleware(testKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called with a bad token")
	}))

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareWrongKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  float64(1),
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("another-key"))
	if err != nil {
		t.Fatal(err)
	}

	handler := AuthMiddleware(testKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called with a token signed by a wrong key")
	}))

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	signed := signTestToken(t, jwt.MapClaims{
		"user_id":  float64(42),
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	var gotUserID uint
	var gotUsername string
	handler := AuthMiddleware(testKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, name, err := GetUserFromContext(r)
		if err != nil {
			t.Fatalf("GetUserFromContext returned error: %v", err)
		}
		gotUserID, gotUsername = id, name

		if header := r.Header.Get("X-User-ID"); header != "42" {
			t.Errorf("X-User-ID header = %q, want 42", header)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if gotUserID != 42 {
		t.Errorf("user_id in context = %d, want 42", gotUserID)
	}
	if gotUsername != "alice" {
		t.Errorf("username in context = %q, want alice", gotUsername)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	signed := signTestToken(t, jwt.MapClaims{
		"user_id":  float64(1),
		"username": "alice",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})

	handler := AuthMiddleware(testKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called with an expired token")
	}))

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
