// Package client provides the outbound HTTP transport for the feed API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/config"
	tlspkg "github.com/MahdiBaghbani/feedclient-go/internal/platform/http/tls"
)

var (
	ErrResponseTooLarge = errors.New("response body too large")
	ErrInvalidProxy     = errors.New("invalid proxy URL")
)

// Client is an http.Client tuned from TransportConfig: bounded timeouts,
// TLS >= 1.2, a per-host connection cap and no cookie jar unless enabled.
type Client struct {
	cfg        *config.TransportConfig
	httpClient *http.Client
}

// New creates the transport. Errors here are configuration faults.
// Proxy environment variables (HTTP_PROXY, HTTPS_PROXY, NO_PROXY) are ignored;
// only cfg.ProxyURL is honored.
func New(cfg *config.TransportConfig) (*Client, error) {
	tlsConfig, err := tlspkg.ClientConfig(cfg)
	if err != nil {
		return nil, err
	}

	var proxy func(*http.Request) (*url.URL, error)
	if cfg.ProxyURL != "" {
		u, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
		}
		proxy = http.ProxyURL(u)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout(),
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 proxy,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   cfg.ConnectTimeout(),
		ResponseHeaderTimeout: cfg.RequestTimeout(),
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
		DisableKeepAlives:     false,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.ResourceTimeout(),
	}

	if cfg.CookiesEnabled {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

// Do performs req bound to ctx.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}

// MaxResponseBytes returns the configured body limit.
func (c *Client) MaxResponseBytes() int64 {
	return c.cfg.MaxResponseBytes
}

// CloseIdleConnections drops pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Response is the descriptor of a completed exchange with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetch executes req on hc and reads the body with a size limit.
// A non-2xx status is not an error here; the caller classifies it.
func Fetch(ctx context.Context, hc HTTPClient, req *http.Request, maxBytes int64) (*Response, error) {
	resp, err := hc.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, maxBytes)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
