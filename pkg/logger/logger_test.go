package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	return entry
}

func TestContextFieldsAreInjected(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "dispatch-api", LevelDebug)

	ctx := wrap.WithAction(context.Background(), "manual_assign")
	ctx = wrap.WithReservationID(ctx, "res-1")
	ctx = wrap.WithDriverID(ctx, "drv-9")

	l.Info(ctx, "assigned")

	entry := decode(t, &buf)
	want := map[string]string{
		"message":        "assigned",
		"service":        "dispatch-api",
		"action":         "manual_assign",
		"reservation_id": "res-1",
		"driver_id":      "drv-9",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Fatalf("field %s = %v, want %s", k, entry[k], v)
		}
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatal("timestamp field missing")
	}
}

func TestErrorCtxRestoresFailingContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "dispatch-worker", LevelDebug)

	failing := wrap.WithAction(context.Background(), "settlement")
	err := wrap.Error(failing, errors.New("boom"))

	l.Error(wrap.ErrorCtx(context.Background(), err), "credit failed", err)

	entry := decode(t, &buf)
	if entry["action"] != "settlement" {
		t.Fatalf("action = %v, want settlement", entry["action"])
	}
	group, ok := entry["error"].(map[string]any)
	if !ok || group["msg"] != "boom" {
		t.Fatalf("unexpected error group: %v", entry["error"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", LevelWarn)

	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %s", buf.String())
	}
}
