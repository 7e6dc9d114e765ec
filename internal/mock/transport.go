package mock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"
)

// Transport serves requests from a Backend in-process.
// It implements client.HTTPClient.
type Transport struct {
	handler http.Handler

	// Latency delays every response, to exercise timeouts and ordering.
	Latency time.Duration
}

// NewTransport returns a transport over b.
func NewTransport(b *Backend) *Transport {
	return &Transport{handler: b.Handler()}
}

// Do runs req through the backend router and returns the recorded response.
func (t *Transport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if t.Latency > 0 {
		timer := time.NewTimer(t.Latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, req.WithContext(ctx))

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
