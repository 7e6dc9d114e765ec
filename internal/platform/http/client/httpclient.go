package client

import (
	"context"
	"net/http"
)

// HTTPClient is the transport boundary for outbound requests.
// Implemented by Client (live) and by the in-process mock backend.
type HTTPClient interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}
