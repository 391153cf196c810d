package cache

import (
	"encoding/json"
	"testing"
	"time"
)

func testBundle() map[string]json.RawMessage {
	return map[string]json.RawMessage{
		"answer":       json.RawMessage(`{"text": "covered under section 4"}`),
		"judge_report": json.RawMessage(`{"verdict": "PASS"}`),
	}
}

func TestStoreAndGet(t *testing.T) {
	ac, err := NewArtifactCache(t.TempDir(), 10, time.Hour)
	if err != nil {
		t.Fatalf("NewArtifactCache: %v", err)
	}

	if ac.Has("r1") {
		t.Fatal("fresh cache should not have r1")
	}
	if err := ac.Store("r1", testBundle()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !ac.Has("r1") {
		t.Fatal("Has should be true after Store")
	}

	got, err := ac.Get("r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := got["answer"]; !ok {
		t.Errorf("bundle missing answer key: %v", got)
	}
}

func TestHasRespectsTTL(t *testing.T) {
	ac, err := NewArtifactCache(t.TempDir(), 10, -time.Second)
	if err != nil {
		t.Fatalf("NewArtifactCache: %v", err)
	}
	if err := ac.Store("r1", testBundle()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if ac.Has("r1") {
		t.Error("expired entry should not count as cached")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ac, err := NewArtifactCache(t.TempDir(), 10, time.Hour)
	if err != nil {
		t.Fatalf("NewArtifactCache: %v", err)
	}
	ac.Store("r1", testBundle())

	if err := ac.Delete("r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ac.Has("r1") {
		t.Error("entry should be gone after Delete")
	}
	if err := ac.Delete("r1"); err != nil {
		t.Errorf("deleting a missing entry should not error, got %v", err)
	}
}

func TestEvictDropsExpiredEntries(t *testing.T) {
	ac, err := NewArtifactCache(t.TempDir(), 10, -time.Second)
	if err != nil {
		t.Fatalf("NewArtifactCache: %v", err)
	}
	ac.Store("r1", testBundle())
	ac.Store("r2", testBundle())

	if err := ac.Evict(); err != nil {
		t.Fatalf("Evict: %v", err)
	}
	total, err := ac.TotalSize()
	if err != nil {
		t.Fatalf("TotalSize: %v", err)
	}
	if total != 0 {
		t.Errorf("TotalSize = %d after evicting expired entries, want 0", total)
	}
}

func TestSlashInRunIDStaysInsideCacheDir(t *testing.T) {
	dir := t.TempDir()
	ac, err := NewArtifactCache(dir, 10, time.Hour)
	if err != nil {
		t.Fatalf("NewArtifactCache: %v", err)
	}
	if err := ac.Store("../escape", testBundle()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !ac.Has("../escape") {
		t.Error("sanitized entry should round-trip through Has")
	}
}
