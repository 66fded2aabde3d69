package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/Tiliavir/ponto/internal/ledger"
	"github.com/Tiliavir/ponto/internal/session"
)

var (
	_ ledger.SessionTracker = (*session.MemoryTracker)(nil)
	_ ledger.SessionTracker = (*session.FileTracker)(nil)
	_ ledger.SessionTracker = (*session.RedisTracker)(nil)
)

func exerciseTracker(t *testing.T, tr ledger.SessionTracker) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := tr.LastPunch(ctx, "s1"); err != nil || ok {
		t.Fatalf("LastPunch on empty tracker = %v, %v; want false, nil", ok, err)
	}

	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	if err := tr.RecordPunch(ctx, "s1", at); err != nil {
		t.Fatalf("RecordPunch: %v", err)
	}
	got, ok, err := tr.LastPunch(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("LastPunch = %v, %v", ok, err)
	}
	if !got.Equal(at) {
		t.Errorf("LastPunch = %v, want %v", got, at)
	}

	if _, ok, _ := tr.LastPunch(ctx, "s2"); ok {
		t.Error("sessions must not share punch times")
	}
}

func TestMemoryTracker(t *testing.T) {
	exerciseTracker(t, session.NewMemoryTracker())
}

func TestFileTracker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	exerciseTracker(t, session.NewFileTracker(path))

	// A second tracker over the same file sees the first one's punch.
	other := session.NewFileTracker(path)
	if _, ok, err := other.LastPunch(context.Background(), "s1"); err != nil || !ok {
		t.Errorf("punch not visible through a second tracker: %v, %v", ok, err)
	}
}

func TestFileTrackerCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := session.NewFileTracker(path).LastPunch(context.Background(), "s1"); err == nil {
		t.Error("expected error for corrupt session file")
	}
}

func TestRedisTracker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tr := session.NewRedisTracker(client, 10*time.Minute)
	exerciseTracker(t, tr)

	mr.FastForward(11 * time.Minute)
	if _, ok, err := tr.LastPunch(context.Background(), "s1"); err != nil || ok {
		t.Errorf("expired punch still visible: %v, %v", ok, err)
	}
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := session.DialRedis(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	_ = client.Close()

	mr.Close()
	if _, err := session.DialRedis(context.Background(), mr.Addr(), "", 0); err == nil {
		t.Error("expected error dialing a closed server")
	}
}
