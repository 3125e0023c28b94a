package api

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// bearerTransport adds the session token, when there is one, and a request id.
type bearerTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, newRequestID())
	}
	if t.source != nil {
		if tok, err := t.source.Token(); err == nil && tok.AccessToken != "" {
			tok.SetAuthHeader(out)
		}
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(out)
}

func newRequestID() string {
	return uuid.NewString()
}
