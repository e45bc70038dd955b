package httpclient

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestNewClientTimeout(t *testing.T) {
	c := NewClient(5 * time.Second)
	if c.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", c.Timeout)
	}

	c = NewClient(-1)
	if c.Timeout != 0 {
		t.Fatalf("negative timeout should clamp to zero, got %s", c.Timeout)
	}
}

func TestNewJSONRequest(t *testing.T) {
	req, err := NewJSONRequest(context.Background(), "post", "http://example.com/x", []byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != http.MethodPost {
		t.Fatalf("expected method uppercased, got %s", req.Method)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}
	body, _ := io.ReadAll(req.Body)
	if string(body) != `{"a":1}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestNewJSONRequestWithoutBody(t *testing.T) {
	req, err := NewJSONRequest(context.Background(), "", "http://example.com/x", nil)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != http.MethodGet {
		t.Fatalf("empty method should default to GET, got %s", req.Method)
	}
	if req.Body != nil {
		t.Fatal("expected nil body")
	}
	if got := req.Header.Get("Content-Type"); got != "" {
		t.Fatalf("expected no content type without body, got %q", got)
	}
}
