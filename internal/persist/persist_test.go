package persist

import (
	"path/filepath"
	"testing"
)

type snapshot struct {
	Theme string   `json:"theme"`
	Items []string `json:"items"`
}

func openTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKV_SaveLoadRoundTrip(t *testing.T) {
	kv := openTestKV(t)

	if err := kv.Save(KeyGeneral, snapshot{Theme: "Slate", Items: []string{"a", "b"}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	var got snapshot
	found, err := kv.Load(KeyGeneral, &got)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !found {
		t.Fatalf("Load found = false, want true")
	}
	if got.Theme != "Slate" || len(got.Items) != 2 {
		t.Fatalf("Load = %#v, want theme Slate and 2 items", got)
	}
}

func TestKV_LoadMissingKey(t *testing.T) {
	kv := openTestKV(t)

	got := snapshot{Theme: "keep"}
	found, err := kv.Load(KeyServer, &got)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if found {
		t.Fatalf("Load found = true, want false")
	}
	if got.Theme != "keep" {
		t.Fatalf("Load modified destination: %#v", got)
	}
}

func TestKV_PurgeAll(t *testing.T) {
	kv := openTestKV(t)

	for _, key := range []string{KeyGeneral, KeyServer} {
		if err := kv.Save(key, snapshot{Theme: key}); err != nil {
			t.Fatalf("Save(%s): %v", key, err)
		}
	}
	if err := kv.PurgeAll(); err != nil {
		t.Fatalf("PurgeAll returned error: %v", err)
	}
	for _, key := range []string{KeyGeneral, KeyServer} {
		var got snapshot
		found, err := kv.Load(key, &got)
		if err != nil {
			t.Fatalf("Load(%s): %v", key, err)
		}
		if found {
			t.Fatalf("Load(%s) found after purge", key)
		}
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	kv, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := kv.Save(KeyServer, snapshot{Theme: "persisted"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	kv, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	var got snapshot
	found, err := kv.Load(KeyServer, &got)
	if err != nil || !found {
		t.Fatalf("Load = (%v, %v), want found", found, err)
	}
	if got.Theme != "persisted" {
		t.Fatalf("Theme = %q, want persisted", got.Theme)
	}
}
