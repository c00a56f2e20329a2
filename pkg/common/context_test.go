package common

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestContextParams tests path parameter access
func TestContextParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/users/42", nil)
	c := NewContext(httptest.NewRecorder(), req, "/users/42", map[string]string{"id": "42"})

	if got := c.Param("id"); got != "42" {
		t.Errorf("Expected param id=42, got %q", got)
	}
	if got := c.Param("missing"); got != "" {
		t.Errorf("Expected empty string for missing param, got %q", got)
	}
}

// TestContextNilParams tests that a context built with no params still
// answers param queries
func TestContextNilParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	c := NewContext(httptest.NewRecorder(), req, "/", nil)

	if got := c.Param("id"); got != "" {
		t.Errorf("Expected empty param from nil params, got %q", got)
	}
	if c.Params() == nil {
		t.Error("Expected Params to return a non-nil map")
	}
}

// TestContextQueryValues tests that query string values are flattened into
// the context's value map
func TestContextQueryValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/search?q=routers&page=2", nil)
	c := NewContext(httptest.NewRecorder(), req, "/search", nil)

	if got := c.Value("q"); got != "routers" {
		t.Errorf("Expected value q=routers, got %v", got)
	}
	if got := c.Query("page"); got != "2" {
		t.Errorf("Expected query page=2, got %q", got)
	}
}

// TestContextFormValues tests that urlencoded body fields are merged into
// the context's value map alongside the query string
func TestContextFormValues(t *testing.T) {
	body := strings.NewReader("name=alice&role=admin")
	req := httptest.NewRequest("POST", "/users?source=web", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c := NewContext(httptest.NewRecorder(), req, "/users", nil)

	if got := c.Value("name"); got != "alice" {
		t.Errorf("Expected value name=alice, got %v", got)
	}
	if got := c.Value("source"); got != "web" {
		t.Errorf("Expected value source=web, got %v", got)
	}
}

// TestContextSetValue tests middleware-to-handler value passing
func TestContextSetValue(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	c := NewContext(httptest.NewRecorder(), req, "/", nil)

	c.SetValue("user_id", 7)
	if got := c.Value("user_id"); got != 7 {
		t.Errorf("Expected value user_id=7, got %v", got)
	}
}

// TestContextStop tests the stop flag
func TestContextStop(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	c := NewContext(httptest.NewRecorder(), req, "/", nil)

	if c.Stopped() {
		t.Error("Expected a fresh context to not be stopped")
	}
	c.Stop()
	if !c.Stopped() {
		t.Error("Expected context to be stopped after Stop")
	}
}

// TestContextJSON tests the JSON render helper
func TestContextJSON(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	c := NewContext(rec, req, "/", nil)

	if err := c.JSON(201, map[string]string{"status": "created"}); err != nil {
		t.Fatalf("Failed to write JSON: %v", err)
	}

	if rec.Code != 201 {
		t.Errorf("Expected status code 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	if decoded["status"] != "created" {
		t.Errorf("Expected status=created in body, got %v", decoded)
	}
}

// TestContextBindJSON tests request body decoding
func TestContextBindJSON(t *testing.T) {
	body := strings.NewReader(`{"name":"bob"}`)
	req := httptest.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", "application/json")
	c := NewContext(httptest.NewRecorder(), req, "/users", nil)

	var payload struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&payload); err != nil {
		t.Fatalf("Failed to bind JSON: %v", err)
	}
	if payload.Name != "bob" {
		t.Errorf("Expected name=bob, got %q", payload.Name)
	}
}

// TestContextString tests the plain-text render helper
func TestContextString(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	c := NewContext(rec, req, "/", nil)

	if err := c.String(418, "short and stout"); err != nil {
		t.Fatalf("Failed to write string: %v", err)
	}
	if rec.Code != 418 {
		t.Errorf("Expected status code 418, got %d", rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
}
