package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestMultiHandlerFansOutToEveryTarget(t *testing.T) {
	var a, b bytes.Buffer
	h := newMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)
	logger := slog.New(h)
	logger.Info("fan out", "k", "v")

	if !strings.Contains(a.String(), "fan out") || !strings.Contains(b.String(), "fan out") {
		t.Fatalf("both targets should receive the record: a=%q b=%q", a.String(), b.String())
	}
}

func TestSetLevelGatesDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	logger := &Logger{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: lvl})), level: lvl}

	logger.DebugContext(context.Background(), "hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug record should be suppressed at info level")
	}

	logger.SetLevel("debug")
	logger.DebugContext(context.Background(), "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatal("debug record should pass once the level is lowered")
	}
}
