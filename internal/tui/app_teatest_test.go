package tui

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/ragtail-dev/ragtail/internal/api"
	"github.com/ragtail-dev/ragtail/internal/cache"
	"github.com/ragtail-dev/ragtail/internal/config"
)

func TestAppStartupAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/runs" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"runs": [{"run_id": "run-abc123", "status": "completed", "created_at": 1756290000.5}], "total": 1}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Server = srv.URL
	client, err := api.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	artCache, err := cache.NewArtifactCache(t.TempDir(), 10, time.Hour)
	if err != nil {
		t.Fatalf("NewArtifactCache: %v", err)
	}

	app := NewApp(&cfg, client, artCache)
	tm := teatest.NewTestModel(t, app, teatest.WithInitialTermSize(120, 40))
	tm.Send(tea.WindowSizeMsg{Width: 120, Height: 40})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("run-abc"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
}
