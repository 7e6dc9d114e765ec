package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MahdiBaghbani/feedclient-go/internal/api"
	"github.com/MahdiBaghbani/feedclient-go/internal/mock"
	"github.com/MahdiBaghbani/feedclient-go/internal/platform/config"
	"github.com/MahdiBaghbani/feedclient-go/internal/store"
	"github.com/MahdiBaghbani/feedclient-go/internal/store/memory"
)

func TestClientAgainstMockBackend(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	backend := mock.NewBackend(mock.Options{SeedUsers: 2, SeedPostsPerUser: 2})
	cfg := config.MockConfig()
	cfg.Transport.BaseURL = cfg.Endpoints.Mock
	kv := memory.New()

	c, err := api.New(ctx, api.Deps{
		Config:   &cfg.Transport,
		Identity: "feedclient/test",
		HTTP:     mock.NewTransport(backend),
		Tokens:   store.NewTokenStore(kv),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	user, err := api.Await(ctx, func(done func(*api.User, error)) {
		c.SignUp("new@x.com", "pw123", done)
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	tok := c.Token()
	if tok == nil {
		t.Fatal("expected token after signup")
	}
	if id, ok := backend.UserIDForToken(*tok); !ok || id != user.ID {
		t.Errorf("held token does not belong to the new user")
	}
	if stored, _ := kv.Get(ctx, store.TokenKey); stored != *tok {
		t.Errorf("stored %q, held %q", stored, *tok)
	}

	_, err = api.Await(ctx, func(done func(*api.User, error)) {
		c.SignUp("new@x.com", "pw123", done)
	})
	var he *api.HTTPError
	if !errors.As(err, &he) || he.StatusCode != 422 {
		t.Errorf("expected 422 for duplicate email, got %v", err)
	}

	feed, err := api.Await(ctx, func(done func([]api.Post, error)) { c.GetFeedPosts(0, done) })
	if err != nil || len(feed) != 4 {
		t.Fatalf("GetFeedPosts = (%d posts, %v)", len(feed), err)
	}
	again, _ := api.Await(ctx, func(done func([]api.Post, error)) { c.GetFeedPosts(0, done) })
	for i := range feed {
		if feed[i].ID != again[i].ID {
			t.Errorf("page not stable at %d", i)
		}
	}

	mine, err := api.Await(ctx, func(done func([]api.Post, error)) { c.GetPostsOf(*user, done) })
	if err != nil || len(mine) != 0 {
		t.Errorf("expected no posts for new user, got (%v, %v)", mine, err)
	}

	_, err = api.Await(ctx, func(done func([]api.Post, error)) { c.GetPostsOf(api.User{ID: 999}, done) })
	if !errors.As(err, &he) || he.StatusCode != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestSlowMockFailsWithTransportError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	backend := mock.NewBackend(mock.Options{SeedUsers: 1, SeedPostsPerUser: 1})
	tr := mock.NewTransport(backend)
	tr.Latency = 2 * time.Second

	cfg := config.MockConfig()
	cfg.Transport.BaseURL = cfg.Endpoints.Mock
	cfg.Transport.ResourceTimeoutMS = 20

	c, err := api.New(ctx, api.Deps{
		Config:   &cfg.Transport,
		Identity: "feedclient/test",
		HTTP:     tr,
		Tokens:   store.NewTokenStore(memory.New()),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	posts, err := api.Await(ctx, func(done func([]api.Post, error)) { c.GetFeedPosts(0, done) })
	if posts != nil {
		t.Errorf("expected nil posts, got %+v", posts)
	}
	if !errors.Is(err, api.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
