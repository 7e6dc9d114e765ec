package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func mockArgs(extra ...string) []string {
	return append([]string{"-mode", "mock", "-logging-level", "error"}, extra...)
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != 2 || !strings.Contains(stderr, "usage: feedclient") {
		t.Errorf("expected usage and exit 2, got %d: %s", code, stderr)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, mockArgs("frobnicate")...)
	if code != 2 || !strings.Contains(stderr, "unknown command") {
		t.Errorf("expected exit 2, got %d: %s", code, stderr)
	}
}

func TestRun_BadConfigIsStartupFault(t *testing.T) {
	code, _, stderr := runCLI(t, "-mode", "staging", "feed")
	if code != 2 || !strings.Contains(stderr, "failed to load config") {
		t.Errorf("expected startup fault, got %d: %s", code, stderr)
	}
}

func TestRun_MockFeed(t *testing.T) {
	code, stdout, stderr := runCLI(t, mockArgs("feed", "-start", "0")...)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var posts []map[string]any
	if err := json.Unmarshal([]byte(stdout), &posts); err != nil {
		t.Fatalf("output is not a post list: %v: %s", err, stdout)
	}
	if len(posts) != 10 {
		t.Errorf("expected a full page of 10, got %d", len(posts))
	}
}

func TestRun_MockSignUp(t *testing.T) {
	code, stdout, stderr := runCLI(t, mockArgs("signup", "-email", "a@x.com", "-password", "pw123")...)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, `"email": "a@x.com"`) {
		t.Errorf("unexpected output %s", stdout)
	}

	code, _, _ = runCLI(t, mockArgs("signup", "-email", "a@x.com")...)
	if code != 2 {
		t.Errorf("missing password should be a usage error, got %d", code)
	}
}

func TestRun_MockPostsOfUnknownUser(t *testing.T) {
	code, _, stderr := runCLI(t, mockArgs("posts", "-user", "999")...)
	if code != 1 || !strings.Contains(stderr, "status 404") {
		t.Errorf("expected exit 1 with 404, got %d: %s", code, stderr)
	}
}

func TestRun_TokenPersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	store := []string{"-store-driver", "json", "-data-dir", dir}

	code, stdout, _ := runCLI(t, mockArgs(append(store, "token")...)...)
	if code != 0 || !strings.Contains(stdout, `"token_held": false`) {
		t.Fatalf("expected no token, got %d: %s", code, stdout)
	}

	code, _, stderr := runCLI(t, mockArgs(append(store, "signup", "-email", "b@x.com", "-password", "pw123")...)...)
	if code != 0 {
		t.Fatalf("signup exit %d: %s", code, stderr)
	}

	code, stdout, _ = runCLI(t, mockArgs(append(store, "token")...)...)
	if code != 0 || !strings.Contains(stdout, `"token_held": true`) {
		t.Errorf("expected token after signup, got %d: %s", code, stdout)
	}
}
