package transport

import (
	"net/http"
	"testing"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&NoAuth{}).Apply(req, "secret")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

func TestTokenAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&TokenAuth{}).Apply(req, "0123abcd")

	if got := req.Header.Get("Authorization"); got != "Token 0123abcd" {
		t.Errorf("Expected Authorization header 'Token 0123abcd', got '%s'", got)
	}
}

func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&BearerAuth{}).Apply(req, "nbt_abc.def")

	if got := req.Header.Get("Authorization"); got != "Bearer nbt_abc.def" {
		t.Errorf("Expected Authorization header 'Bearer nbt_abc.def', got '%s'", got)
	}
}
