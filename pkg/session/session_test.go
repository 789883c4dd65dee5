package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/campuseats/pkg/session"
)

// Tests run without Redis, so the middleware falls back to the in-memory
// store automatically.

func sessionHandler(fn func(s *session.Session, w http.ResponseWriter)) http.Handler {
	mw := session.Middleware(session.DefaultOptions())
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(session.FromCtx(r), w)
	}))
}

func TestSessionRoundtrip(t *testing.T) {
	write := sessionHandler(func(s *session.Session, w http.ResponseWriter) {
		s.Set("user_id", uint(7))
		if err := s.Save(w); err != nil {
			t.Fatalf("save: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	write.ServeHTTP(rec, httptest.NewRequest("POST", "/login", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}
	cookie := cookies[0]
	if !cookie.HttpOnly {
		t.Error("session cookie must be http-only")
	}

	read := sessionHandler(func(s *session.Session, w http.ResponseWriter) {
		id, ok := s.GetUint("user_id")
		if !ok || id != 7 {
			t.Errorf("expected user_id 7, got %v (%v)", id, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(cookie)
	read.ServeHTTP(httptest.NewRecorder(), req)
}

func TestUnsavedSessionWritesNoCookie(t *testing.T) {
	h := sessionHandler(func(s *session.Session, w http.ResponseWriter) {
		// No Set, no Save — nothing should be persisted.
		if err := s.Save(w); err != nil {
			t.Fatalf("save: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/food-items", nil))

	if got := len(rec.Result().Cookies()); got != 0 {
		t.Errorf("expected no cookie for an untouched session, got %d", got)
	}
}

func TestDestroyExpiresCookieAndClearsStore(t *testing.T) {
	login := sessionHandler(func(s *session.Session, w http.ResponseWriter) {
		s.Set("user_id", uint(9))
		s.Save(w) //nolint:errcheck
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest("POST", "/login", nil))
	cookie := rec.Result().Cookies()[0]

	logout := sessionHandler(func(s *session.Session, w http.ResponseWriter) {
		if err := s.Destroy(w); err != nil {
			t.Fatalf("destroy: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec2 := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(cookie)
	logout.ServeHTTP(rec2, req)

	expired := rec2.Result().Cookies()
	if len(expired) == 0 || expired[0].MaxAge != -1 {
		t.Error("expected an expired session cookie")
	}

	// The old token must no longer resolve to any data.
	check := sessionHandler(func(s *session.Session, w http.ResponseWriter) {
		if _, ok := s.GetUint("user_id"); ok {
			t.Error("destroyed session still has data")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	req2 := httptest.NewRequest("GET", "/me", nil)
	req2.AddCookie(cookie)
	check.ServeHTTP(httptest.NewRecorder(), req2)
}

func TestTypedGetters(t *testing.T) {
	h := sessionHandler(func(s *session.Session, w http.ResponseWriter) {
		s.Set("role", "admin")
		s.Set("user_id", float64(12)) // JSON round-trips numbers as float64

		if v, ok := s.GetString("role"); !ok || v != "admin" {
			t.Errorf("GetString: got %q (%v)", v, ok)
		}
		if v, ok := s.GetUint("user_id"); !ok || v != 12 {
			t.Errorf("GetUint: got %d (%v)", v, ok)
		}
		if _, ok := s.GetUint("role"); ok {
			t.Error("GetUint on a string must miss")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}
