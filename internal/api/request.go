package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/config"
)

// Request headers.
const (
	HeaderAuthToken      = "Authentication-Token"
	HeaderClientIdentity = "X-Client-Identity"
	HeaderRequestID      = "X-Request-Id"
)

// RequestBuilder turns (method, path, authorized, params) into an outbound request.
// It holds no mutable state; the token is passed per call.
type RequestBuilder struct {
	base      *url.URL
	identity  string
	userAgent string
}

// NewRequestBuilder validates the base URL once.
// identity is "name/version"; the platform is appended.
func NewRequestBuilder(cfg *config.TransportConfig, identity string) (*RequestBuilder, error) {
	if identity == "" {
		return nil, &ConfigurationFault{Reason: "client identity is required"}
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &ConfigurationFault{Reason: "invalid base URL", Err: err}
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, &ConfigurationFault{Reason: fmt.Sprintf("base URL %q must be absolute", cfg.BaseURL)}
	}

	full := fmt.Sprintf("%s (%s/%s)", identity, runtime.GOOS, runtime.GOARCH)
	ua := cfg.UserAgent
	if ua == "" {
		ua = full
	}
	return &RequestBuilder{base: base, identity: full, userAgent: ua}, nil
}

// Identity returns the value of the client identity header.
func (b *RequestBuilder) Identity() string { return b.identity }

// Build returns a fresh request. path may carry a query string.
// Faults in code-controlled input (path, params) panic with *ConfigurationFault.
// An authorized request without a token is sent unauthenticated.
func (b *RequestBuilder) Build(ctx context.Context, method, path string, authorized bool, params any, token *string) *http.Request {
	target := b.resolve(path)

	var body io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			panic(&ConfigurationFault{Reason: "encode request params for " + path, Err: err})
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		panic(&ConfigurationFault{Reason: "build request " + method + " " + path, Err: err})
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set(HeaderClientIdentity, b.identity)
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if authorized && token != nil && *token != "" {
		req.Header.Set(HeaderAuthToken, *token)
	}
	return req
}

// resolve appends path to the base URL path, keeping path's query.
func (b *RequestBuilder) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		panic(&ConfigurationFault{Reason: "malformed path " + path, Err: err})
	}
	if ref.IsAbs() || ref.Host != "" || !strings.HasPrefix(ref.Path, "/") {
		panic(&ConfigurationFault{Reason: "path must be absolute and host-relative: " + path})
	}

	u := *b.base
	u.Path = strings.TrimSuffix(b.base.Path, "/") + ref.Path
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	u.Fragment = ""
	return u.String()
}
