package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(secret, "admin", "a@b.c", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken(secret, tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "admin" || claims.Email != "a@b.c" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != TokenTTL {
		t.Fatalf("ttl = %s", ttl)
	}
	if _, err := ValidateToken("other", tok); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestValidateRejectsExpiredAndForeign(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "x",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, _ := expired.SignedString([]byte(secret))
	if _, err := ValidateToken(secret, s); err == nil {
		t.Fatal("expired token accepted")
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "x",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	})
	s, _ = foreign.SignedString([]byte(secret))
	if _, err := ValidateToken(secret, s); err == nil {
		t.Fatal("foreign issuer accepted")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("hunter2", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("hunter3", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	h := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"message":"unauthorized"`) {
		t.Fatalf("no token: %d %s", rec.Code, rec.Body)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}

	tok, _ := GenerateToken(secret, "admin", "a@b.c", "admin")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.Email != "a@b.c" {
		t.Fatalf("good token: %d claims=%+v", rec.Code, seen)
	}
}

func TestRequireForMethods(t *testing.T) {
	h := RequireForMethods(secret, http.MethodPost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("GET = %d, want passthrough", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("POST = %d, want 401", rec.Code)
	}
}
