package connection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewHTTPClient_BaseURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"localhost:7080", "http://localhost:7080"},
		{"http://localhost:7080/", "http://localhost:7080"},
		{"https://sweeper.internal", "https://sweeper.internal"},
	}
	for _, tt := range tests {
		if got := NewHTTPClient(tt.server, 0).BaseURL(); got != tt.want {
			t.Errorf("NewHTTPClient(%q).BaseURL() = %q, want %q", tt.server, got, tt.want)
		}
	}
}

func TestHTTPClient_Invoke(t *testing.T) {
	var gotPath, gotUA string
	var gotBody map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"OK","message":"Success","request_id":"req_1","data":{"payload":"20"}}`))
	}))
	defer srv.Close()

	var out struct {
		Payload string `json:"payload"`
	}
	c := NewHTTPClient(srv.URL, time.Second)
	if err := c.Invoke(context.Background(), "DeleteState", []string{"x"}, &out); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if gotPath != "/v1/invoke/DeleteState" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUA != UserAgent {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if len(gotBody["args"]) != 1 {
		t.Errorf("body = %v", gotBody)
	}
	if out.Payload != "20" {
		t.Errorf("Payload = %q, want 20", out.Payload)
	}
}

func TestHTTPClient_InvokeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NSR-OP-4040","message":"[NSR-OP-4040] could not find function named: Nope","request_id":"req_2"}`))
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, time.Second).Invoke(context.Background(), "Nope", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != "NSR-OP-4040" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if apiErr.RequestID != "req_2" {
		t.Errorf("RequestID = %q", apiErr.RequestID)
	}
}

func TestHTTPClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, time.Second).Invoke(context.Background(), "Ping", nil, nil)
	if err == nil || err.Error() != "request failed with status 502" {
		t.Errorf("error = %v", err)
	}
}

func TestHTTPClient_HealthUnavailableStillDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":"OK","message":"Success","data":{"status":"uninitialized"}}`))
	}))
	defer srv.Close()

	var out struct {
		Status string `json:"status"`
	}
	if err := NewHTTPClient(srv.URL, time.Second).Health(context.Background(), &out); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if out.Status != "uninitialized" {
		t.Errorf("Status = %q", out.Status)
	}
}
