package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "stockroom/internal/http/handlers"
)

func postCredentials(path string, creds handler.CredentialsRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(creds)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	resetRateLimiter()

	w := postCredentials("/register", handler.CredentialsRequest{Username: "clerk", Password: "warehouse1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var registered handler.RegisterResult
	json.NewDecoder(w.Body).Decode(&registered)
	if registered.Token == "" {
		t.Error("expected a token on registration")
	}

	w = postCredentials("/login", handler.CredentialsRequest{Username: "clerk", Password: "warehouse1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var logged handler.LoginResult
	json.NewDecoder(w.Body).Decode(&logged)
	if logged.Token == "" {
		t.Error("expected a token on login")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	resetRateLimiter()

	if w := postCredentials("/register", handler.CredentialsRequest{Username: "picker", Password: "warehouse1"}); w.Code != http.StatusCreated {
		t.Fatalf("error registering user: %d %s", w.Code, w.Body.String())
	}

	w := postCredentials("/register", handler.CredentialsRequest{Username: "picker", Password: "different1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	resetRateLimiter()

	tests := []struct {
		name  string
		creds handler.CredentialsRequest
	}{
		{"missing credentials", handler.CredentialsRequest{}},
		{"short username", handler.CredentialsRequest{Username: "ab", Password: "warehouse1"}},
		{"short password", handler.CredentialsRequest{Username: "clerk2", Password: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postCredentials("/register", tt.creds); w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	resetRateLimiter()

	tests := []struct {
		name  string
		creds handler.CredentialsRequest
	}{
		{"unknown user", handler.CredentialsRequest{Username: "nobody", Password: "whatever1"}},
		{"wrong password", handler.CredentialsRequest{Username: "admin", Password: "wrong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postCredentials("/login", tt.creds); w.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", w.Code)
			}
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	resetRateLimiter()
	t.Cleanup(resetRateLimiter)

	var limited bool
	for i := 0; i < 10; i++ {
		// malformed body fails fast, before any bcrypt work
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected the limiter to reject rapid login attempts")
	}
}

func TestRejectsMalformedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
