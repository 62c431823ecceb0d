package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T) *LocalStorageClient {
	t.Helper()
	client, err := NewLocalStorageClient(filepath.Join(t.TempDir(), "charts"))
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewLocalStorageClient(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "charts")

	client, err := NewLocalStorageClient(dir)
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	if client.BaseDir() != dir {
		t.Errorf("Expected base dir %s, got %s", dir, client.BaseDir())
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Base directory was not created: %v", err)
	}
}

func TestLocalStorageClient_StoreAndGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		path string
		data []byte
	}{
		{"flat file", "revenue.png", []byte("png-bytes")},
		{"nested file", "pages/home/growth.png", []byte("nested")},
		{"leading slash", "/lead.png", []byte("lead")},
		{"empty content", "empty.png", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.StoreFile(ctx, tt.path, tt.data); err != nil {
				t.Fatalf("StoreFile() error = %v", err)
			}

			got, err := client.GetFile(ctx, tt.path)
			if err != nil {
				t.Fatalf("GetFile() error = %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("GetFile() = %q, want %q", got, tt.data)
			}

			exists, err := client.FileExists(ctx, tt.path)
			if err != nil || !exists {
				t.Errorf("FileExists() = %v, %v; want true, nil", exists, err)
			}
		})
	}
}

func TestLocalStorageClient_StoreOverwrites(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.StoreFile(ctx, "chart.png", []byte("first")); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}
	if err := client.StoreFile(ctx, "chart.png", []byte("second")); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}

	got, err := client.GetFile(ctx, "chart.png")
	if err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Expected overwritten content, got %q", got)
	}
}

func TestLocalStorageClient_GetMissing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetFile(context.Background(), "missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	exists, err := client.FileExists(context.Background(), "missing.png")
	if err != nil || exists {
		t.Errorf("FileExists() = %v, %v; want false, nil", exists, err)
	}
}

func TestLocalStorageClient_RejectsEscapingPaths(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, p := range []string{"", "..", "../outside.png", "a/../../outside.png"} {
		if err := client.StoreFile(ctx, p, []byte("x")); err == nil {
			t.Errorf("StoreFile(%q) expected error", p)
		}
		if _, err := client.GetFile(ctx, p); err == nil {
			t.Errorf("GetFile(%q) expected error", p)
		}
	}

	outside := filepath.Join(filepath.Dir(client.BaseDir()), "outside.png")
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Errorf("File escaped the base directory: %s", outside)
	}
}

func TestLocalStorageClient_FileExistsOnDirectory(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.StoreFile(ctx, "dir/chart.png", []byte("x")); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}
	exists, err := client.FileExists(ctx, "dir")
	if err != nil {
		t.Fatalf("FileExists() error = %v", err)
	}
	if exists {
		t.Error("Directories must not be reported as files")
	}
}

func TestLocalStorageClient_ListFiles(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, p := range []string{"b.png", "a.png", "pages/home/c.png", "pages/about/d.png"} {
		if err := client.StoreFile(ctx, p, []byte(p)); err != nil {
			t.Fatalf("StoreFile(%s) error = %v", p, err)
		}
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"a.png", "b.png", "pages/about/d.png", "pages/home/c.png"}},
		{"pages/", []string{"pages/about/d.png", "pages/home/c.png"}},
		{"pages/home", []string{"pages/home/c.png"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := client.ListFiles(ctx, tt.prefix)
			if err != nil {
				t.Fatalf("ListFiles() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListFiles(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestLocalStorageClient_Close(t *testing.T) {
	client := newTestClient(t)
	if err := client.Close(); err != nil {
		t.Errorf("Close() returned unexpected error: %v", err)
	}
}
