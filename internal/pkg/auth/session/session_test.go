package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ProJug/Grunt/internal/app/user"
)

const testSecret = "unit-test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("alice", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	username, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if username != "alice" {
		t.Errorf("username = %q, want alice", username)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("alice", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Error("token signed with another secret must not validate")
	}
	if _, err := ParseToken("garbage", testSecret); err == nil {
		t.Error("garbage token must not validate")
	}
}

func TestFromRequest(t *testing.T) {
	token, err := GenerateToken("alice", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	username, ok := FromRequest(r, testSecret)
	if !ok || username != "alice" {
		t.Errorf("FromRequest = (%q, %v), want (alice, true)", username, ok)
	}

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := FromRequest(bare, testSecret); ok {
		t.Error("request without cookie must be anonymous")
	}
}

// staticResolver backs the middleware tests with a fixed account map.
type staticResolver map[string]user.User

func (m staticResolver) GetUser(username string) (user.User, bool) {
	u, ok := m[username]
	return u, ok
}

func TestMiddleware(t *testing.T) {
	resolver := staticResolver{"alice": {DisplayName: "Alice"}}

	var seen *Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPrincipal(r)
	})
	handler := Middleware(testSecret, resolver)(next)

	token, err := GenerateToken("alice", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if seen == nil || seen.Username != "alice" || seen.User.DisplayName != "Alice" {
		t.Errorf("expected resolved principal for alice, got %+v", seen)
	}

	// A valid token for a deleted account resolves to anonymous.
	danglingToken, err := GenerateToken("ghost", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	seen = nil
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: danglingToken})
	handler.ServeHTTP(httptest.NewRecorder(), r)
	if seen != nil {
		t.Errorf("dangling session must stay anonymous, got %+v", seen)
	}

	// No cookie at all: anonymous, request still served.
	seen = &Principal{Username: "sentinel"}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != nil {
		t.Errorf("anonymous request must carry no principal, got %+v", seen)
	}
}
