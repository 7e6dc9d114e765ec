package appctx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/logutil"
)

func TestWithLogger_And_LoggerFromContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := WithLogger(context.Background(), logger)

	got, ok := LoggerFromContext(ctx)
	if !ok {
		t.Fatal("expected LoggerFromContext to return true")
	}
	if got != logger {
		t.Error("expected same logger instance")
	}
}

func TestLoggerFromContext_Missing(t *testing.T) {
	if _, ok := LoggerFromContext(context.Background()); ok {
		t.Error("expected false for context without logger")
	}
	var nilLogger *slog.Logger
	if _, ok := LoggerFromContext(WithLogger(context.Background(), nilLogger)); ok {
		t.Error("expected false for nil logger")
	}
}

func TestGetLogger_FallsBackToNoop(t *testing.T) {
	if got := GetLogger(context.Background()); got != logutil.Noop() {
		t.Error("expected discard logger when none attached")
	}
}

func TestGetLogger_Logs(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))

	GetLogger(ctx).Info("signup accepted", "user_id", 7)

	if !bytes.Contains(buf.Bytes(), []byte("signup accepted")) || !bytes.Contains(buf.Bytes(), []byte("user_id=7")) {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}
