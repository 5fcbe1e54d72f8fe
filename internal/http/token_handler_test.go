package http

import (
	"net/http"
	"testing"
)

func TestObtainAndRefreshTokenPair(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "alice@x.com", "longpass1")

	w := ts.do(t, http.MethodPost, "/o/token/", map[string]any{
		"username": "alice",
		"password": "longpass1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("obtain: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	pair := decodeBody(t, w)
	access, _ := pair["access"].(string)
	refresh, _ := pair["refresh"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("expected access and refresh tokens, got %v", pair)
	}

	w = ts.do(t, http.MethodPost, "/o/token/refresh/", map[string]any{"refresh": refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rotated := decodeBody(t, w)
	if rotated["refresh"] == refresh {
		t.Fatal("refresh token must rotate")
	}

	// El refresh usado queda revocado.
	w = ts.do(t, http.MethodPost, "/o/token/refresh/", map[string]any{"refresh": refresh})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("reused refresh: expected 401, got %d", w.Code)
	}
}

func TestObtainPairInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "alice@x.com", "longpass1")

	w := ts.do(t, http.MethodPost, "/o/token/", map[string]any{
		"username": "alice",
		"password": "wrongpass1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestObtainPairMissingCredentials(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/o/token/", map[string]any{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBearerAccessTokenAuthorizesProfile(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "alice@x.com", "longpass1")

	w := ts.do(t, http.MethodPost, "/o/token/", map[string]any{
		"username": "alice",
		"password": "longpass1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("obtain: expected 200, got %d", w.Code)
	}
	access := decodeBody(t, w)["access"].(string)

	w = ts.do(t, http.MethodGet, "/api/users/profile/", nil, withBearer(access))
	if w.Code != http.StatusOK {
		t.Fatalf("profile with bearer: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	user := decodeBody(t, w)["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("expected alice, got %v", user["username"])
	}
}
