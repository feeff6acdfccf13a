package client

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/surplusmarket/client-go/resilience"
)

// CredentialSource supplies the bearer credential for outbound requests.
// session.Store satisfies this; the pipeline never mutates the credential.
type CredentialSource interface {
	Token() (string, bool)
}

// authTransport is the outbound hook of the request pipeline: it attaches
// the bearer credential when one is present and otherwise sends the request
// unauthenticated. Centralizing this here means no call site carries
// credential logic.
type authTransport struct {
	base  http.RoundTripper
	creds CredentialSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok := t.creds.Token(); ok {
		// Per RoundTripper contract the request must not be mutated.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

// breakerTransport runs each round trip under a circuit breaker. An open
// circuit fails fast; the caller sees it as an unavailable marketplace.
type breakerTransport struct {
	base    http.RoundTripper
	breaker *resilience.CircuitBreaker
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	err := t.breaker.Execute(req.Context(), func() error {
		var rtErr error
		resp, rtErr = t.base.RoundTrip(req)
		return rtErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// buildTransport assembles the pipeline, outermost first:
// otelhttp -> circuit breaker -> credential injection -> base.
func buildTransport(base http.RoundTripper, creds CredentialSource, breaker *resilience.CircuitBreaker, traced bool) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := http.RoundTripper(&authTransport{base: base, creds: creds})
	if breaker != nil {
		rt = &breakerTransport{base: rt, breaker: breaker}
	}
	if traced {
		rt = otelhttp.NewTransport(rt)
	}
	return rt
}
