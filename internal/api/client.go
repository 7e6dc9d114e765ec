// Package api is the client for the feed backend: signup, the paged feed and
// per-user posts, with the auth token persisted across runs.
//
// All requests go through one worker goroutine, so the backend sees them in
// issue order and at most one is in flight. Completions run on a CallbackQueue.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/config"
	"github.com/MahdiBaghbani/feedclient-go/internal/platform/http/client"
	"github.com/MahdiBaghbani/feedclient-go/internal/platform/logutil"
	"github.com/MahdiBaghbani/feedclient-go/internal/store"
)

// FeedAPI is the surface callers depend on.
type FeedAPI interface {
	SignUp(email, password string, completion func(*User, error))
	GetFeedPosts(startPostIndex int, completion func([]Post, error))
	GetPostsOf(user User, completion func([]Post, error))
}

var _ FeedAPI = (*Client)(nil)

// Deps holds what a Client is built from.
type Deps struct {
	// Config is the immutable transport configuration. Required.
	Config *config.TransportConfig

	// Identity is "name/version". Required.
	Identity string

	// HTTP executes requests: the live transport or the mock. Required.
	HTTP client.HTTPClient

	// Tokens persists the auth token. Required.
	Tokens *store.TokenStore

	// Callbacks receives completions. Nil means a MainQueue owned by the client.
	Callbacks CallbackQueue

	Logger *slog.Logger

	// AllowSensitive logs token values unredacted.
	AllowSensitive bool
}

// Client implements FeedAPI.
type Client struct {
	cfg            *config.TransportConfig
	builder        *RequestBuilder
	http           client.HTTPClient
	tokens         *store.TokenStore
	callbacks      CallbackQueue
	ownCallbacks   *MainQueue
	worker         *serialQueue
	logger         *slog.Logger
	allowSensitive bool

	// state is written only on the worker.
	state TokenState
	token atomic.Pointer[string]

	closeOnce sync.Once
}

// New builds a client and loads the persisted token.
// Missing dependencies and a bad base URL are returned as *ConfigurationFault.
func New(ctx context.Context, d Deps) (*Client, error) {
	if d.Config == nil {
		return nil, &ConfigurationFault{Reason: "transport config is required"}
	}
	if d.HTTP == nil {
		return nil, &ConfigurationFault{Reason: "transport is required"}
	}
	if d.Tokens == nil {
		return nil, &ConfigurationFault{Reason: "token store is required"}
	}
	builder, err := NewRequestBuilder(d.Config, d.Identity)
	if err != nil {
		return nil, err
	}

	loaded, err := d.Tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	c := &Client{
		cfg:            d.Config,
		builder:        builder,
		http:           d.HTTP,
		tokens:         d.Tokens,
		callbacks:      d.Callbacks,
		logger:         logutil.NoopIfNil(d.Logger),
		allowSensitive: d.AllowSensitive,
		state:          NewTokenState(loaded),
	}
	if c.callbacks == nil {
		c.ownCallbacks = NewMainQueue()
		c.callbacks = c.ownCallbacks
	}
	c.token.Store(c.state.Value())
	c.worker = newSerialQueue()

	c.logger.Debug("api client ready",
		"base_url", d.Config.BaseURL,
		"identity", builder.Identity(),
		"token_held", c.state.Held())
	return c, nil
}

// Token returns the held token, or nil.
func (c *Client) Token() *string {
	p := c.token.Load()
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SignUp creates an account. A token in the response is held and persisted.
func (c *Client) SignUp(email, password string, completion func(*User, error)) {
	params := signUpParams{User: credentials{Email: email, Password: password}}
	c.submit(func(ctx context.Context) {
		user, err := c.signUp(ctx, params)
		c.deliver(func() { completion(user, err) })
	}, func(err error) {
		c.deliver(func() { completion(nil, err) })
	})
}

// GetFeedPosts fetches one feed page. startPostIndex is the zero-based offset
// of the first post in the page; 0 is the newest post.
func (c *Client) GetFeedPosts(startPostIndex int, completion func([]Post, error)) {
	c.getPosts(feedPath(startPostIndex), completion)
}

// GetPostsOf fetches the posts of user.
func (c *Client) GetPostsOf(user User, completion func([]Post, error)) {
	c.getPosts(userPostsPath(user.ID), completion)
}

// Close stops accepting work, runs what is queued and waits for it.
// Operations issued after Close complete with ErrClosed.
// It must not be called from a completion.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.worker.close()
		if c.ownCallbacks != nil {
			c.ownCallbacks.Close()
		}
		c.logger.Debug("api client closed")
	})
}

func (c *Client) getPosts(path string, completion func([]Post, error)) {
	c.submit(func(ctx context.Context) {
		posts, err := c.fetchPosts(ctx, path)
		c.deliver(func() { completion(posts, err) })
	}, func(err error) {
		c.deliver(func() { completion(nil, err) })
	})
}

func (c *Client) submit(job func(ctx context.Context), reject func(error)) {
	if !c.worker.post(func() {
		ctx, cancel := c.jobContext()
		defer cancel()
		job(ctx)
	}) {
		reject(ErrClosed)
	}
}

// jobContext bounds one exchange by the resource timeout, whichever transport serves it.
func (c *Client) jobContext() (context.Context, context.CancelFunc) {
	if d := c.cfg.ResourceTimeout(); d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

func (c *Client) deliver(fn func()) {
	c.callbacks.Post(fn)
}

func (c *Client) signUp(ctx context.Context, params signUpParams) (*User, error) {
	body, err := c.exchange(ctx, http.MethodPost, PathSignUp, false, params)
	if err != nil {
		return nil, err
	}
	env, err := DecodeOne[User](body)
	if err != nil {
		c.logger.Warn("signup response rejected", "error", err)
		return nil, err
	}
	c.applyToken(ctx, env.Meta)
	return &env.Data, nil
}

func (c *Client) fetchPosts(ctx context.Context, path string) ([]Post, error) {
	body, err := c.exchange(ctx, http.MethodGet, path, false, nil)
	if err != nil {
		return nil, err
	}
	env, err := DecodeMany[Post](body)
	if err != nil {
		c.logger.Warn("posts response rejected", "path", path, "error", err)
		return nil, err
	}
	return env.Data, nil
}

// exchange builds, sends and classifies one request. It runs on the worker.
func (c *Client) exchange(ctx context.Context, method, path string, authorized bool, params any) ([]byte, error) {
	req := c.builder.Build(ctx, method, path, authorized, params, c.state.Value())
	target := req.URL.String()
	reqID := req.Header.Get(HeaderRequestID)

	c.logger.Debug("request dispatched", "method", method, "path", path, "request_id", reqID)

	resp, err := client.Fetch(ctx, c.http, req, c.cfg.MaxResponseBytes)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	if !resp.OK() {
		c.logger.Warn("unexpected status", "method", method, "path", path, "request_id", reqID, "status", resp.StatusCode)
		return nil, newHTTPError(method, target, resp.StatusCode, resp.Body)
	}

	c.logger.Debug("response received", "method", method, "path", path, "request_id", reqID,
		"status", resp.StatusCode, "bytes", len(resp.Body))
	return resp.Body, nil
}

// applyToken holds and persists a token from a successful response.
// A failed write is logged; the token stays held for this process.
func (c *Client) applyToken(ctx context.Context, meta *string) {
	next, effect := UpdateToken(c.state, meta)
	c.state = next
	if !effect.Persist {
		return
	}
	c.token.Store(next.Value())

	if err := c.tokens.Save(ctx, effect.Value); err != nil {
		c.logger.Error("token not persisted", "error", err)
		return
	}
	c.logger.Info("auth token updated", "token", logutil.Redact(*effect.Value, c.allowSensitive))
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool { return errors.Is(err, ErrDecode) }
