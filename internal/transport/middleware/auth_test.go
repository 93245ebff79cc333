package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/finhistory-backend/internal/config"
	"github.com/heartmarshall/finhistory-backend/pkg/ctxutil"
)

func okHandler(t *testing.T, wantActor string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxutil.ActorFromCtx(r.Context())
		if !ok || actor != wantActor {
			t.Errorf("expected actor %q in context, got %q", wantActor, actor)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func rejectHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})
}

// ---------------------------------------------------------------------------
// AdminGate
// ---------------------------------------------------------------------------

func TestAdminGate_PlainToken(t *testing.T) {
	t.Parallel()

	gate := NewAdminGate(config.AuthConfig{AdminToken: "s3cret"})

	if !gate.Enabled() {
		t.Fatal("expected gate to be enabled")
	}
	if !gate.Check("s3cret") {
		t.Error("expected matching token to pass")
	}
	if gate.Check("s3cre") || gate.Check("") {
		t.Error("expected wrong or empty token to fail")
	}
}

func TestAdminGate_HashTakesPrecedence(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	gate := NewAdminGate(config.AuthConfig{AdminToken: "plain-token", AdminTokenHash: string(hash)})

	if !gate.Check("hashed-token") {
		t.Error("expected hashed token to pass")
	}
	if gate.Check("plain-token") {
		t.Error("plain token must be ignored when a hash is configured")
	}
}

func TestAdminGate_Unconfigured(t *testing.T) {
	t.Parallel()

	gate := NewAdminGate(config.AuthConfig{})

	if gate.Enabled() {
		t.Error("expected gate to be disabled")
	}
	if gate.Check("anything") {
		t.Error("unconfigured gate must reject every token")
	}
}

// ---------------------------------------------------------------------------
// AdminAuth
// ---------------------------------------------------------------------------

func TestAdminAuth_ValidToken(t *testing.T) {
	t.Parallel()

	wrapped := AdminAuth(NewAdminGate(config.AuthConfig{AdminToken: "s3cret"}))(okHandler(t, ctxutil.ActorAdmin))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/events", nil)
	req.Header.Set(AdminTokenHeader, "s3cret")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAdminAuth_MissingOrWrongToken(t *testing.T) {
	t.Parallel()

	wrapped := AdminAuth(NewAdminGate(config.AuthConfig{AdminToken: "s3cret"}))(rejectHandler(t))

	for _, token := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/events", nil)
		if token != "" {
			req.Header.Set(AdminTokenHeader, token)
		}
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: expected status %d, got %d", token, http.StatusUnauthorized, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"UNAUTHORIZED"`) {
			t.Errorf("token %q: expected UNAUTHORIZED envelope, got %q", token, rec.Body.String())
		}
	}
}

func TestAdminAuth_ActorReachesLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	gate := NewAdminGate(config.AuthConfig{AdminToken: "s3cret"})

	wrapped := Chain(Logger(logger), AdminAuth(gate))(okHandler(t, ctxutil.ActorAdmin))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/events", nil)
	req.Header.Set(AdminTokenHeader, "s3cret")
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), `"actor":"admin"`) {
		t.Errorf("expected actor in request log, got %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// InternalAuth
// ---------------------------------------------------------------------------

func TestInternalAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}{
		{"matching secret", "ingest-key", "ingest-key", http.StatusOK},
		{"wrong secret", "ingest-key", "other", http.StatusUnauthorized},
		{"missing header", "ingest-key", "", http.StatusUnauthorized},
		{"unconfigured secret", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var next http.Handler = okHandler(t, ctxutil.ActorInternal)
			if tt.wantStatus != http.StatusOK {
				next = rejectHandler(t)
			}
			wrapped := InternalAuth(tt.secret)(next)

			req := httptest.NewRequest(http.MethodPost, "/api/internal/import", nil)
			if tt.header != "" {
				req.Header.Set(InternalSecretHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			wrapped.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
