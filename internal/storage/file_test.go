package storage

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"NavTrace/internal/model"
)

func TestFileWriter_WriteAndSummary(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dump_writer_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	w, err := NewFileWriter(tmpDir)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}

	frames := []*model.DumpFrame{
		{Data: bytes.Repeat([]byte{0xAA}, 200), Len: 200, Instance: 0, Timestamp: time.Unix(1000, 0).UTC()},
		{Data: bytes.Repeat([]byte{0xBB}, 200), Len: 200, Flags: model.FlagSolicited, Instance: 1, Timestamp: time.Unix(2000, 0).UTC()},
	}
	for _, f := range frames {
		if err := w.Write(f); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read temp dir: %v", err)
	}

	var dumpPath, summaryPath string
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".summary.json"):
			summaryPath = filepath.Join(tmpDir, e.Name())
		case strings.HasSuffix(e.Name(), ".gob"):
			dumpPath = filepath.Join(tmpDir, e.Name())
		}
	}
	if dumpPath == "" || summaryPath == "" {
		t.Fatalf("Expected a dump file and a summary, found %d entries", len(entries))
	}

	// The dump file must decode back to the written frames, in order.
	file, err := os.Open(dumpPath)
	if err != nil {
		t.Fatalf("Failed to open dump file: %v", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	for i, want := range frames {
		var got model.DumpFrame
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Failed to decode frame %d: %v", i, err)
		}
		if !bytes.Equal(got.Data, want.Data) || got.Flags != want.Flags || got.Instance != want.Instance {
			t.Errorf("Frame %d does not round-trip", i)
		}
	}
	var extra model.DumpFrame
	if err := decoder.Decode(&extra); err != io.EOF {
		t.Errorf("Expected EOF after %d frames, got %v", len(frames), err)
	}

	summaryBytes, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("Failed to read summary: %v", err)
	}
	var summary SummaryData
	if err := json.Unmarshal(summaryBytes, &summary); err != nil {
		t.Fatalf("Failed to unmarshal summary: %v", err)
	}
	if summary.TotalFrames != 2 || summary.TotalBytes != 400 {
		t.Errorf("Summary mismatch: %+v", summary)
	}
}

func TestFileWriter_NoSummaryWithoutFrames(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dump_writer_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	w, err := NewFileWriter(tmpDir)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read temp dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".summary.json") {
			t.Error("No summary should be written for an empty run")
		}
	}
}
