package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFSStorePutAndOverwrite(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	ctx := context.Background()
	key := "u123/u123_14-03-22.png"
	if err := store.Put(ctx, key, []byte("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Same key again: last write wins
	if err := store.Put(ctx, key, []byte("second")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), "u123", "u123_14-03-22.png"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Expected last write to win, got %q", data)
	}
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	for _, key := range []string{"../outside.png", "/etc/passwd", "a/../../b.png"} {
		if err := store.Put(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Key %q should have been rejected", key)
		}
	}
}
