// Package auth injects authentication credentials into outgoing requests.
// Only static bearer tokens are supported; tokens are expected to be
// obtained outside the application.
package auth

import (
	"context"
	"fmt"
	"net/http"
)

// Provider injects credentials into HTTP requests.
type Provider interface {
	InjectHeader(ctx context.Context, req *http.Request) error
}

// StaticTokenProvider sets a pre-configured bearer token on every request.
type StaticTokenProvider struct {
	token string
}

func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

func (p *StaticTokenProvider) InjectHeader(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.token))
	return nil
}
