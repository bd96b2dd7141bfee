package logging

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingWriter_NoRotationWhenDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	rw, err := NewRotatingWriter(path, RotationConfig{})
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}
	defer rw.Close()

	chunk := bytes.Repeat([]byte("x"), 4096)
	for i := 0; i < 10; i++ {
		if _, err := rw.Write(chunk); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("no backup should exist when rotation is disabled")
	}
}

func TestRotatingWriter_RotatesAndShifts(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}
	defer rw.Close()

	// Each write is a little over half the limit, so every second write rotates.
	chunk := bytes.Repeat([]byte("a"), (1<<20)/2+1)
	for i := 0; i < 4; i++ {
		if _, err := rw.Write(chunk); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", filepath.Base(p), err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestRotatingWriter_Compress(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 1, Compress: true})
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}
	defer rw.Close()

	first := bytes.Repeat([]byte("b"), 1<<20-10)
	if _, err := rw.Write(first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := rw.Write([]byte("overflow-line\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("uncompressed backup should be removed after compression")
	}

	f, err := os.Open(path + ".1.gz")
	if err != nil {
		t.Fatalf("open compressed backup: %v", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read compressed backup: %v", err)
	}
	if !bytes.Equal(data, first) {
		t.Errorf("compressed backup has %d bytes, want %d", len(data), len(first))
	}
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	rw, err := NewRotatingWriter(filepath.Join(t.TempDir(), FileName), DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestNewLoggerWithRotation(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLoggerWithRotation(dir, LevelInfo, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewLoggerWithRotation: %v", err)
	}
	logger.Info("rotating logger ready")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte("rotating logger ready")) {
		t.Errorf("log file missing entry: %s", data)
	}
}
