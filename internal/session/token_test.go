package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker("test-secret")

	token, err := tm.New("s_abc", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != "s_abc" {
		t.Fatalf("session id=%q", claims.SessionID)
	}
}

func TestTokenMaker_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenMaker("secret-a").New("s_abc", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := NewTokenMaker("secret-b").Parse(token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestTokenMaker_RejectsExpired(t *testing.T) {
	tm := NewTokenMaker("test-secret")

	token, err := tm.New("s_abc", -time.Minute)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Fatal("expected expired token rejection")
	}
}

func TestTokenMaker_RejectsGarbage(t *testing.T) {
	tm := NewTokenMaker("test-secret")

	for _, token := range []string{"", "nonsense", "a.b.c"} {
		if _, err := tm.Parse(token); err == nil {
			t.Fatalf("expected rejection for %q", token)
		}
	}
}

func TestIssueHandler(t *testing.T) {
	srv := &Server{JWT: NewTokenMaker("test-secret"), TTL: time.Hour}

	rec := httptest.NewRecorder()
	srv.IssueHandler()(rec, httptest.NewRequest(http.MethodPost, "/session", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var got issueResp
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got.SessionID, "s_") {
		t.Fatalf("session id=%q", got.SessionID)
	}

	claims, err := srv.JWT.Parse(got.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.SessionID != got.SessionID {
		t.Fatalf("token names %q, response names %q", claims.SessionID, got.SessionID)
	}
}

func TestRequire_BlocksAndPasses(t *testing.T) {
	tm := NewTokenMaker("test-secret")

	var seen string
	h := Require(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d", rec.Code)
	}

	token, err := tm.New("s_xyz", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("good token: status=%d", rec.Code)
	}
	if seen != "s_xyz" {
		t.Fatalf("context session=%q", seen)
	}
}
