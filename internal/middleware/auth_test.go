package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/service"
	"github.com/kull-platform/api/pkg/token"
)

// ============================================================================
// Mock Authenticator
// ============================================================================

type mockAuthenticator struct {
	authenticateFunc func(ctx context.Context, raw string) (*model.Identity, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, raw string) (*model.Identity, error) {
	return m.authenticateFunc(ctx, raw)
}

// successAuthenticator resolves any token to the given identity
func successAuthenticator(ident *model.Identity) *mockAuthenticator {
	return &mockAuthenticator{
		authenticateFunc: func(ctx context.Context, raw string) (*model.Identity, error) {
			return ident, nil
		},
	}
}

// errorAuthenticator returns the specified error
func errorAuthenticator(err error) *mockAuthenticator {
	return &mockAuthenticator{
		authenticateFunc: func(ctx context.Context, raw string) (*model.Identity, error) {
			return nil, err
		},
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestRequest(authHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

// captureHandler captures the request context for inspection
type captureHandler struct {
	called bool
	ctx    context.Context
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

// ============================================================================
// Auth() Middleware Tests
// ============================================================================

func TestAuth_MissingAuthorizationHeader_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	mw := Auth(successAuthenticator(&model.Identity{UserID: "user:123"}))

	req := newTestRequest("") // No auth header
	rr := httptest.NewRecorder()
	mw(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if handler.called {
		t.Error("handler should not be called")
	}

	body := decodeEnvelope(t, rr)
	if body["message"] != "No token provided" {
		t.Errorf("unexpected message %q", body["message"])
	}
	if body["success"] != false {
		t.Error("expected success=false")
	}
}

func TestAuth_MalformedHeader_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	mw := Auth(successAuthenticator(&model.Identity{UserID: "user:123"}))

	req := newTestRequest("Basic abc123")
	rr := httptest.NewRecorder()
	mw(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if handler.called {
		t.Error("handler should not be called")
	}
}

func TestAuth_ValidToken_StoresIdentity(t *testing.T) {
	t.Parallel()
	ident := &model.Identity{UserID: "user:123", Role: model.RoleUser, Community: "community:x"}
	handler := &captureHandler{}
	mw := Auth(successAuthenticator(ident))

	req := newTestRequest("Bearer good-token")
	rr := httptest.NewRecorder()
	mw(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if !handler.called {
		t.Fatal("handler should be called")
	}

	got := GetIdentity(handler.ctx)
	if got == nil || got.UserID != "user:123" {
		t.Errorf("identity not propagated, got %+v", got)
	}
}

func TestAuth_ErrorMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"expired", token.ErrTokenExpired, http.StatusUnauthorized, "Token expired"},
		{"invalid", token.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"unknown user", service.ErrUnknownTokenUser, http.StatusUnauthorized, "Invalid token user"},
		{"disabled user", service.ErrUserDisabled, http.StatusForbidden, "User account is disabled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			handler := &captureHandler{}
			mw := Auth(errorAuthenticator(tc.err))

			req := newTestRequest("Bearer some-token")
			rr := httptest.NewRecorder()
			mw(handler).ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
			body := decodeEnvelope(t, rr)
			if body["message"] != tc.wantMessage {
				t.Errorf("expected message %q, got %q", tc.wantMessage, body["message"])
			}
		})
	}
}

// ============================================================================
// Role Gate Tests
// ============================================================================

func withIdentity(req *http.Request, ident *model.Identity) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), IdentityKey, ident))
}

func TestAuthThenRequireAdmin_Composition(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	wrapped := Auth(successAuthenticator(&model.Identity{
		UserID: "user:3", Role: model.RoleUser,
		Community: "community:x", RoleInCommunity: model.CommunityRoleMember,
		CommunityStatus: model.CommunityStatusApproved,
	}))(RequireAdmin(handler))

	// The identity resolved by Auth reaches the role gate.
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, newTestRequest("Bearer member-token"))
	if rr.Code != http.StatusForbidden || handler.called {
		t.Errorf("member should be rejected by the stacked gate, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, newTestRequest(""))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing token should fail before the role gate, got %d", rr.Code)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	mw := RequireSuperAdmin(handler)

	req := withIdentity(newTestRequest("Bearer t"), &model.Identity{UserID: "user:1", Role: model.RoleSuperAdmin})
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !handler.called {
		t.Errorf("super admin should pass, got %d", rr.Code)
	}

	handler.called = false
	req = withIdentity(newTestRequest("Bearer t"), &model.Identity{
		UserID: "user:2", Role: model.RoleUser,
		Community: "community:x", RoleInCommunity: model.CommunityRoleAdmin,
		CommunityStatus: model.CommunityStatusApproved,
	})
	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden || handler.called {
		t.Errorf("community admin should be rejected, got %d", rr.Code)
	}
	body := decodeEnvelope(t, rr)
	if body["message"] != "Access denied: Only superAdmin allowed" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	mw := RequireAdmin(handler)

	req := withIdentity(newTestRequest("Bearer t"), &model.Identity{
		UserID: "user:2", Role: model.RoleUser,
		Community: "community:x", RoleInCommunity: model.CommunityRoleAdmin,
		CommunityStatus: model.CommunityStatusApproved,
	})
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !handler.called {
		t.Errorf("community admin should pass, got %d", rr.Code)
	}

	handler.called = false
	req = withIdentity(newTestRequest("Bearer t"), &model.Identity{
		UserID: "user:3", Role: model.RoleUser,
		Community: "community:x", RoleInCommunity: model.CommunityRoleMember,
		CommunityStatus: model.CommunityStatusApproved,
	})
	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden || handler.called {
		t.Errorf("member should be rejected, got %d", rr.Code)
	}
	body := decodeEnvelope(t, rr)
	if body["message"] != "Access denied: Only superAdmin or communityAdmin allowed" {
		t.Errorf("unexpected message %q", body["message"])
	}
}
