package fileserver

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestServeDirectory(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "firmware.bin")
	if err := os.WriteFile(p, []byte("payload"), 0600); err != nil {
		t.Fatal(err)
	}

	srv, err := New(dir, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	res, err := http.Get(srv.URL() + "/firmware.bin")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "payload" {
		t.Errorf("served body got %q, want %q", body, "payload")
	}

	if err := srv.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

// A file path hosts the file's parent directory.
func TestServeFileParent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "firmware.bin")
	if err := os.WriteFile(p, []byte("payload"), 0600); err != nil {
		t.Fatal(err)
	}

	srv, err := New(p, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if srv.Path() != dir {
		t.Errorf("Path got %q, want parent %q", srv.Path(), dir)
	}
}

func TestNew_Missing(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), 0); err == nil {
		t.Error("New on a missing path got nil error")
	}
}
