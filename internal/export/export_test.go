package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	data := []byte("PK\x03\x04 workbook payload")

	path, err := WriteWorkbook(dir, data)
	if err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}
	if filepath.Base(path) != WorkbookName {
		t.Errorf("wrote %s, want %s", filepath.Base(path), WorkbookName)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export back: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("export bytes differ: got %d bytes, want %d", len(got), len(data))
	}
}

func TestWriteWorkbookReplacesPrevious(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteWorkbook(dir, []byte("first export")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	path, err := WriteWorkbook(dir, []byte("second export"))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "second export" {
		t.Errorf("export not replaced: %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("export dir holds %d files, want 1 (no temp leftovers)", len(entries))
	}
}

func TestWriteWorkbookRejectsEmptyPayload(t *testing.T) {
	if _, err := WriteWorkbook(t.TempDir(), nil); err == nil {
		t.Error("empty workbook accepted")
	}
}

func TestWriteWorkbookCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	if _, err := WriteWorkbook(dir, []byte("data")); err != nil {
		t.Fatalf("WriteWorkbook with missing dir: %v", err)
	}
}
