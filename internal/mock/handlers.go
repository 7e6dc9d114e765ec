package mock

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/appctx"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 3

type signUpRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

type envelope struct {
	Data any     `json:"data"`
	Meta *string `json:"meta,omitempty"`
}

// handleSignUp handles POST /users.json.
func (b *Backend) handleSignUp(w http.ResponseWriter, r *http.Request) {
	log := appctx.GetLogger(r.Context())

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.User.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid_email", "email is invalid")
		return
	}
	if len(req.User.Password) < MinPasswordLength {
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid_password", "password is too short")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.User.Password), bcrypt.MinCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "failed to hash password")
		return
	}

	b.mu.Lock()
	if _, taken := b.byEmail[email]; taken {
		b.mu.Unlock()
		writeJSONError(w, http.StatusUnprocessableEntity, "email_taken", "email has already been taken")
		return
	}
	b.nextUser++
	acct := &account{
		user: userJSON{
			ID:        b.nextUser,
			Email:     email,
			CreatedAt: b.now().UTC().Format(time.RFC3339),
		},
		passwordHash: hash,
	}
	b.accounts[acct.user.ID] = acct
	b.byEmail[email] = acct.user.ID
	token := uuid.NewString()
	b.tokens[token] = acct.user.ID
	b.mu.Unlock()

	log.Info("user signed up", "user_id", acct.user.ID)
	writeJSON(w, http.StatusCreated, envelope{Data: acct.user, Meta: &token})
}

// handleFeed handles GET /posts?start_post_index=N.
// N is the zero-based offset of the first post returned, counted newest first.
func (b *Backend) handleFeed(w http.ResponseWriter, r *http.Request) {
	start := 0
	if raw := r.URL.Query().Get("start_post_index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "start_post_index must be a non-negative integer")
			return
		}
		start = n
	}

	b.mu.RLock()
	page := make([]postJSON, 0, b.pageSize)
	for i := start; i < len(b.posts) && len(page) < b.pageSize; i++ {
		page = append(page, b.withAuthor(b.posts[i]))
	}
	b.mu.RUnlock()

	writeJSON(w, http.StatusOK, envelope{Data: page})
}

// handleUserPosts handles GET /users/{id}/posts.
func (b *Backend) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.accounts[id]; !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	posts := make([]postJSON, 0)
	for _, p := range b.posts {
		if p.UserID == id {
			posts = append(posts, b.withAuthor(p))
		}
	}
	writeJSON(w, http.StatusOK, envelope{Data: posts})
}

// withAuthor embeds the author. Caller holds b.mu.
func (b *Backend) withAuthor(p postJSON) postJSON {
	if acct, ok := b.accounts[p.UserID]; ok {
		u := acct.user
		p.User = &u
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
