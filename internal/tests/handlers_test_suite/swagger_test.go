package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSwaggerDocServed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if doc["swagger"] != "2.0" {
		t.Errorf("expected swagger 2.0, got %v", doc["swagger"])
	}

	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatal("expected a paths object")
	}
	for _, path := range []string{"/products", "/transactions", "/metrics/dashboard", "/login"} {
		if _, ok := paths[path]; !ok {
			t.Errorf("path %s missing from doc.json", path)
		}
	}
}
