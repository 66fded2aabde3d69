package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tiliavir/ponto/internal/apiclient"
	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/ledger"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/server"
	"github.com/Tiliavir/ponto/internal/session"
	"github.com/Tiliavir/ponto/internal/storage"
)

var (
	_ ledger.EntryStore = (*apiclient.Client)(nil)
	_ kanban.BoardStore = (*apiclient.Client)(nil)
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func backend(t *testing.T) *apiclient.Client {
	t.Helper()
	store := storage.New(t.TempDir())
	srv := httptest.NewServer(server.NewRouter(store, store, server.Options{}))
	t.Cleanup(srv.Close)
	c, err := apiclient.New(context.Background(), apiclient.Config{BaseURL: srv.URL + "/"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := apiclient.New(context.Background(), apiclient.Config{}, nil); err == nil {
		t.Error("expected error without base url")
	}
}

func TestLedgerOverHTTP(t *testing.T) {
	c := backend(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.Local)
	l := ledger.New(c, session.NewMemoryTracker(), "s1", nil, ledger.WithClock(func() time.Time { return now }))

	p, err := l.RegisterPunch(ctx, "ana", nil)
	if err != nil {
		t.Fatalf("first punch: %v", err)
	}
	now = now.Add(4 * time.Hour)
	p, err = l.RegisterPunch(ctx, "ana", &p.Entry)
	if err != nil {
		t.Fatalf("second punch: %v", err)
	}
	if p.Entry.Saida1 != "12:00" || p.Entry.TotalHours != "04:00" {
		t.Errorf("entry = %+v", p.Entry)
	}

	entry, err := l.Allocate(ctx, p.Entry, ledger.AllocationRequest{ProjectID: "payroll", Start: "08:00", End: "10:30"})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(entry.Allocations) != 1 || entry.Allocations[0].Hours != 2.5 || entry.Allocations[0].ID == "" {
		t.Errorf("allocations = %+v", entry.Allocations)
	}

	today, err := l.Today(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if today == nil || today.Version != entry.Version {
		t.Errorf("Today = %+v", today)
	}
}

func TestEngineOverHTTP(t *testing.T) {
	c := backend(t)
	ctx := context.Background()
	e := kanban.NewEngine(c, "", nil)
	if err := e.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	card, err := e.Submit(ctx, model.TimeCorrection{
		Date:          "2026-10-16",
		Pairs:         []model.TimePair{{Entrada: "08:00", Saida: "12:00"}},
		Justification: "forgot to punch",
	}, "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	steps := []struct {
		op   func(context.Context, string) (model.Card, error)
		want model.FrontendStatus
	}{
		{e.Select, model.StatusInAnalysis},
		{e.RequestCorrection, model.StatusNeedsCorrection},
	}
	for _, s := range steps {
		if _, err := s.op(ctx, card.ID); err != nil {
			t.Fatal(err)
		}
		if _, got, _ := e.Card(card.ID); got != s.want {
			t.Fatalf("status = %q, want %q", got, s.want)
		}
	}

	draft, err := e.EditCard(card.ID)
	if err != nil {
		t.Fatal(err)
	}
	draft.Justification = "badge reader offline"
	edited, err := e.SaveEdit(ctx, card.ID, draft)
	if err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	if edited.Correction == nil || edited.Correction.Justification != "badge reader offline" {
		t.Errorf("edited = %+v", edited)
	}
	if err := e.DeleteCard(ctx, card.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
}

func TestErrorMapping(t *testing.T) {
	c := backend(t)
	ctx := context.Background()

	if err := c.DeleteCard(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete missing err = %v", err)
	}
	e, err := c.CreateEntry(ctx, model.NewEntry{UserID: "ana", Date: "2026-10-17"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.UpdateEntry(ctx, e.ID, model.EntryPatch{Version: 5}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("stale update err = %v", err)
	}
	_, err = c.CreateEntry(ctx, model.NewEntry{UserID: "ana", Date: "someday"})
	if apperr.KindOf(err) != apperr.KindValidation || !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("invalid create err = %v", err)
	}
}

func TestServerErrorIsUnclassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()
	c := apiclient.NewWithHTTPClient(srv.URL, srv.Client(), nil)

	_, err := c.FetchBoards(context.Background())
	if err == nil || apperr.KindOf(err) != 0 {
		t.Errorf("err = %v (kind %v), want unclassified error", err, apperr.KindOf(err))
	}
}

func TestStaticBearerToken(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c, err := apiclient.New(context.Background(), apiclient.Config{BaseURL: srv.URL, AccessToken: "tok-123"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchBoards(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := auth.Load(); got != "Bearer tok-123" {
		t.Errorf("Authorization = %v", got)
	}
}

func TestClientCredentialsTokenIsCached(t *testing.T) {
	var issued atomic.Int32
	var auth atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		issued.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "cc-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/api/v1/kanban/boards", func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokenFile := apiclient.TokenFile(t.TempDir())
	cfg := apiclient.Config{
		BaseURL:      srv.URL,
		ClientID:     "ponto-cli",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
		TokenFile:    tokenFile,
	}
	for i := 0; i < 2; i++ {
		c, err := apiclient.New(context.Background(), cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.FetchBoards(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if got := auth.Load(); got != "Bearer cc-token" {
		t.Errorf("Authorization = %v", got)
	}
	if n := issued.Load(); n != 1 {
		t.Errorf("token endpoint called %d times, want 1", n)
	}
	if _, err := os.Stat(tokenFile); err != nil {
		t.Errorf("token not cached: %v", err)
	}
	if filepath.Base(tokenFile) != "api_token.json" {
		t.Errorf("token file = %s", tokenFile)
	}
}
