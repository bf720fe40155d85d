package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/infrastructure/auth"
)

type fakeRevoker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = make(map[string]bool)
	}
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[tokenID], nil
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	revoker := &fakeRevoker{}
	mw := NewAuthMiddleware(jwtManager, revoker)

	token, claims, err := jwtManager.Generate(&domain.User{ID: 7, Email: "jane.doe@example.com"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	serve := func(authorize func(*http.Request)) (*httptest.ResponseRecorder, bool, int64) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7", nil)
		if authorize != nil {
			authorize(req)
		}
		rr := httptest.NewRecorder()

		var (
			called   bool
			callerID int64
		)
		mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			callerID, _ = CallerID(r.Context())
		})).ServeHTTP(rr, req)

		return rr, called, callerID
	}

	t.Run("valid token passes with caller in context", func(t *testing.T) {
		rr, called, callerID := serve(func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})
		if !called {
			t.Fatalf("handler not reached: %d %s", rr.Code, rr.Body.String())
		}
		if callerID != 7 {
			t.Errorf("caller id = %d", callerID)
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rr, called, _ := serve(nil)
		if called || rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d (called=%v)", rr.Code, called)
		}
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		rr, called, _ := serve(func(req *http.Request) {
			req.Header.Set("Authorization", "Token "+token)
		})
		if called || rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d (called=%v)", rr.Code, called)
		}
	})

	t.Run("wrong signature rejected", func(t *testing.T) {
		otherManager := auth.NewJWTManager("other-secret", time.Hour)
		otherToken, _, _ := otherManager.Generate(&domain.User{ID: 7})

		rr, called, _ := serve(func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+otherToken)
		})
		if called || rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d (called=%v)", rr.Code, called)
		}
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		if err := revoker.Revoke(context.Background(), claims.ID, time.Hour); err != nil {
			t.Fatalf("revoke: %v", err)
		}

		rr, called, _ := serve(func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})
		if called || rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d (called=%v)", rr.Code, called)
		}
	})
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", -time.Minute)
	mw := NewAuthMiddleware(jwtManager, &fakeRevoker{})

	token, _, err := jwtManager.Generate(&domain.User{ID: 1})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("expired token must not pass")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
