package provider

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDo_ReadsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	body, status, err := Do(&http.Client{Timeout: time.Second}, req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", status, http.StatusTeapot)
	}
	if string(body) != "short and stout" {
		t.Errorf("body = %q", body)
	}
}

func TestDo_TransportErrorHidesURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	req, _ := http.NewRequest(http.MethodGet, addr+"/v1/current.json?key=super-secret", nil)
	_, _, err := Do(&http.Client{Timeout: time.Second}, req)
	if err == nil {
		t.Fatal("Do() expected error for closed server")
	}
	if strings.Contains(err.Error(), "super-secret") {
		t.Errorf("error leaks credentials: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate([]byte("abc"), 5); got != "abc" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate([]byte("abcdef"), 3); got != "abc..." {
		t.Errorf("Truncate() = %q", got)
	}
}
