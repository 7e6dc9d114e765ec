// Package main is the entrypoint for the feedclient command.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MahdiBaghbani/feedclient-go/internal/api"
	"github.com/MahdiBaghbani/feedclient-go/internal/mock"
	"github.com/MahdiBaghbani/feedclient-go/internal/platform/config"
	"github.com/MahdiBaghbani/feedclient-go/internal/platform/http/client"
	"github.com/MahdiBaghbani/feedclient-go/internal/platform/logutil"
	"github.com/MahdiBaghbani/feedclient-go/internal/store"

	// Register token store drivers
	_ "github.com/MahdiBaghbani/feedclient-go/internal/store/loader"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	appName = "feedclient"
	version = "dev"
)

const usage = `usage: feedclient [flags] <command> [args]

commands:
  signup -email EMAIL -password PASSWORD   create an account and store its token
  feed [-start N]                          print one page of the feed
  posts -user ID                           print the posts of a user
  token                                    print whether a token is stored

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 ok, 1 operation failed, 2 usage or startup fault.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Path to TOML config file (optional)")
	modeFlag := fs.String("mode", "", "Run mode: live or mock (overrides config)")
	baseURL := fs.String("base-url", "", "Backend base URL (overrides config)")
	storeDriver := fs.String("store-driver", "", "Token store driver: json, sqlite, redis, memory (overrides config)")
	dataDir := fs.String("data-dir", "", "Data directory for file-backed stores (overrides config)")
	loggingLevel := fs.String("logging-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
	loggingAllowSensitive := fs.String("logging-allow-sensitive", "", "Allow token values in logs: true or false (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	// Bootstrap logger for config loading errors (uses default level)
	bootstrapLogger := logutil.New(stderr, "info")

	// Load config with precedence: mode preset -> TOML file -> CLI flags
	cfg, err := config.Load(config.LoaderOptions{
		ConfigPath: *configPath,
		ModeFlag:   *modeFlag,
		AppName:    appName,
		AppVersion: version,
		FlagOverrides: config.FlagOverrides{
			BaseURL:               nonEmpty(baseURL),
			StoreDriver:           nonEmpty(storeDriver),
			DataDir:               nonEmpty(dataDir),
			LoggingLevel:          nonEmpty(loggingLevel),
			LoggingAllowSensitive: nonEmpty(loggingAllowSensitive),
		},
		Logger: bootstrapLogger,
	})
	if err != nil {
		bootstrapLogger.Error("failed to load config", "error", err)
		return 2
	}

	logger := logutil.New(stderr, cfg.Logging.Level)
	logger.Debug("effective configuration", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := store.Open(ctx, &store.DriverConfig{
		Driver:  cfg.Store.Driver,
		DataDir: cfg.Store.DataDir,
		Options: cfg.DriverConfig(cfg.Store.Driver),
	})
	if err != nil {
		logger.Error("failed to open token store", "driver", cfg.Store.Driver, "error", err)
		return 2
	}
	defer kv.Close()

	transport, closeTransport, err := newTransport(cfg, logger)
	if err != nil {
		logger.Error("failed to create transport", "error", err)
		return 2
	}
	defer closeTransport()

	c, err := api.New(ctx, api.Deps{
		Config:         &cfg.Transport,
		Identity:       cfg.Identity(),
		HTTP:           transport,
		Tokens:         store.NewTokenStore(kv),
		Logger:         logger,
		AllowSensitive: cfg.Logging.AllowSensitive,
	})
	if err != nil {
		logger.Error("failed to create api client", "error", err)
		return 2
	}
	defer c.Close()

	cmd := &command{api: c, tokens: c.Token, out: stdout, errOut: stderr}
	return cmd.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}

// newTransport selects the transport for the run mode.
func newTransport(cfg *config.Config, logger *slog.Logger) (client.HTTPClient, func(), error) {
	if config.Mode(cfg.Mode) == config.ModeMock {
		backend := mock.NewBackend(mock.Options{
			SeedUsers:        5,
			SeedPostsPerUser: 6,
			Logger:           logger.With("component", "mock"),
		})
		logger.Info("using mock backend", "base_url", cfg.Transport.BaseURL)
		return mock.NewTransport(backend), func() {}, nil
	}

	hc, err := client.New(&cfg.Transport)
	if err != nil {
		return nil, nil, err
	}
	return hc, hc.CloseIdleConnections, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// command runs one subcommand against a FeedAPI.
type command struct {
	api    api.FeedAPI
	tokens func() *string
	out    io.Writer
	errOut io.Writer
}

func (c *command) dispatch(ctx context.Context, name string, args []string) int {
	switch name {
	case "signup":
		return c.signUp(ctx, args)
	case "feed":
		return c.feed(ctx, args)
	case "posts":
		return c.posts(ctx, args)
	case "token":
		return c.token()
	default:
		fmt.Fprintf(c.errOut, "unknown command %q\n", name)
		return 2
	}
}

func (c *command) signUp(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(c.errOut, "signup requires -email and -password")
		return 2
	}

	user, err := api.Await(ctx, func(done func(*api.User, error)) {
		c.api.SignUp(*email, *password, done)
	})
	return c.print(user, err)
}

func (c *command) feed(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	start := fs.Int("start", 0, "Start post index")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	posts, err := api.Await(ctx, func(done func([]api.Post, error)) {
		c.api.GetFeedPosts(*start, done)
	})
	return c.print(posts, err)
}

func (c *command) posts(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	userID := fs.Int64("user", 0, "User id")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *userID <= 0 {
		fmt.Fprintln(c.errOut, "posts requires -user")
		return 2
	}

	posts, err := api.Await(ctx, func(done func([]api.Post, error)) {
		c.api.GetPostsOf(api.User{ID: *userID}, done)
	})
	return c.print(posts, err)
}

func (c *command) token() int {
	held := c.tokens() != nil
	return c.print(map[string]bool{"token_held": held}, nil)
}

func (c *command) print(v any, err error) int {
	if err != nil {
		var he *api.HTTPError
		switch {
		case errors.As(err, &he):
			fmt.Fprintf(c.errOut, "request failed: status %d: %s\n", he.StatusCode, he.Body)
		case errors.Is(err, api.ErrDecode):
			fmt.Fprintf(c.errOut, "unexpected response: %v\n", err)
		default:
			fmt.Fprintf(c.errOut, "request failed: %v\n", err)
		}
		return 1
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(c.errOut, "write output: %v\n", err)
		return 1
	}
	return 0
}
