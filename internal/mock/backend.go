// Package mock is an in-process fake of the feed backend. Run mode "mock"
// routes the client's requests to it instead of the network.
package mock

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/http/middleware"
	"github.com/MahdiBaghbani/feedclient-go/internal/platform/logutil"
)

// DefaultPageSize is the number of posts per feed page.
const DefaultPageSize = 10

// Options configures a Backend.
type Options struct {
	// PageSize caps posts per page. Zero means DefaultPageSize.
	PageSize int

	// SeedUsers and SeedPostsPerUser populate the feed at start.
	SeedUsers        int
	SeedPostsPerUser int

	Logger *slog.Logger
}

// account is a stored user with its password hash.
type account struct {
	user         userJSON
	passwordHash []byte
}

type userJSON struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}

type postJSON struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
	User      *userJSON `json:"user,omitempty"`
}

// Backend holds the fake's state and router.
type Backend struct {
	mu       sync.RWMutex
	accounts map[int64]*account
	byEmail  map[string]int64
	tokens   map[string]int64
	posts    []postJSON // newest first
	nextUser int64
	nextPost int64
	pageSize int
	now      func() time.Time

	router chi.Router
	logger *slog.Logger
}

// NewBackend returns a seeded backend.
func NewBackend(opts Options) *Backend {
	b := &Backend{
		accounts: make(map[int64]*account),
		byEmail:  make(map[string]int64),
		tokens:   make(map[string]int64),
		pageSize: opts.PageSize,
		now:      time.Now,
		logger:   logutil.NoopIfNil(opts.Logger),
	}
	if b.pageSize <= 0 {
		b.pageSize = DefaultPageSize
	}
	b.seed(opts.SeedUsers, opts.SeedPostsPerUser)
	b.router = b.routes()
	return b
}

// Handler returns the backend's HTTP handler.
func (b *Backend) Handler() http.Handler {
	return b.router
}

func (b *Backend) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(b.logger))
	r.Use(middleware.AccessLog(b.logger))
	r.Use(chimw.Recoverer)

	r.Post("/users.json", b.handleSignUp)
	r.Get("/posts", b.handleFeed)
	r.Get("/users/{id}/posts", b.handleUserPosts)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed")
	})
	return r
}

// seed creates users with a few posts each, interleaved by time.
// Seeded users have no password and cannot be signed up again.
func (b *Backend) seed(users, postsPerUser int) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for u := 0; u < users; u++ {
		b.nextUser++
		acct := &account{user: userJSON{
			ID:        b.nextUser,
			Email:     fmt.Sprintf("seed%d@feed.invalid", b.nextUser),
			Name:      fmt.Sprintf("Seed User %d", b.nextUser),
			CreatedAt: start.Format(time.RFC3339),
		}}
		b.accounts[acct.user.ID] = acct
		b.byEmail[acct.user.Email] = acct.user.ID
	}
	for p := 0; p < postsPerUser; p++ {
		for u := int64(1); u <= int64(users); u++ {
			b.nextPost++
			b.posts = append(b.posts, postJSON{
				ID:        b.nextPost,
				UserID:    u,
				Body:      fmt.Sprintf("post %d by user %d", b.nextPost, u),
				CreatedAt: start.Add(time.Duration(b.nextPost) * time.Minute).Format(time.RFC3339),
			})
		}
	}
	sort.Slice(b.posts, func(i, j int) bool { return b.posts[i].ID > b.posts[j].ID })
}

// UserIDForToken returns the account a token was issued to.
func (b *Backend) UserIDForToken(token string) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	id, ok := b.tokens[token]
	return id, ok
}

// CheckPassword reports whether password matches the account for email.
func (b *Backend) CheckPassword(email, password string) bool {
	b.mu.RLock()
	id, ok := b.byEmail[strings.ToLower(email)]
	var hash []byte
	if ok {
		hash = b.accounts[id].passwordHash
	}
	b.mu.RUnlock()
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
