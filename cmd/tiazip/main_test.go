package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWritesParsesRegisterWriteLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "writes.json")
	data := `[{"writeIndex":0,"addr":21,"val":5,"hz":60,"ticks":100,"row":{"subsong":0,"ord":0,"row":0}}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	writes, err := readWrites(path)
	if err != nil {
		t.Fatalf("readWrites error: %v", err)
	}
	if len(writes) != 1 {
		t.Fatalf("got %d writes, want 1", len(writes))
	}
	if writes[0].Addr != 21 || writes[0].Val != 5 || writes[0].Hz != 60 {
		t.Errorf("unexpected parsed write: %+v", writes[0])
	}
}

func TestReadWritesRejectsMissingFile(t *testing.T) {
	_, err := readWrites("/nonexistent/path/to/writes.json")
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestReadWritesRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := readWrites(path)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
