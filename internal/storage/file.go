package storage

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"NavTrace/internal/model"
)

// SummaryData holds the metadata written next to a finished dump file.
type SummaryData struct {
	TotalFrames int    `json:"total_frames"`
	TotalBytes  uint64 `json:"total_bytes"`
	Timestamp   string `json:"timestamp"`
}

// FileWriter appends gob-encoded dump frames to a per-run file under a root
// path and writes a summary.json when closed. It implements model.Writer.
type FileWriter struct {
	mu      sync.Mutex
	file    *os.File
	encoder *gob.Encoder

	frames int
	bytes  uint64
}

// NewFileWriter creates the root directory if needed and opens a new
// timestamped dump file inside it.
func NewFileWriter(rootPath string) (*FileWriter, error) {
	if err := os.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dump directory: %w", err)
	}

	fileName := fmt.Sprintf("%s.gob", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(rootPath, fileName)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create dump file '%s': %w", filePath, err)
	}

	log.Printf("File writer started, writing to: %s", filePath)
	return &FileWriter{file: file, encoder: gob.NewEncoder(file)}, nil
}

// Write encodes a single frame onto the dump file.
func (w *FileWriter) Write(f *model.DumpFrame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(f); err != nil {
		return fmt.Errorf("failed to encode frame to gob: %w", err)
	}
	w.frames++
	w.bytes += uint64(f.Len)
	return nil
}

// Close writes the run summary next to the dump file and closes it.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.frames > 0 {
		summary := SummaryData{
			TotalFrames: w.frames,
			TotalBytes:  w.bytes,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}
		summaryPath := w.file.Name() + ".summary.json"
		summaryFile, err := os.Create(summaryPath)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		jsonEncoder := json.NewEncoder(summaryFile)
		jsonEncoder.SetIndent("", "  ")
		if err := jsonEncoder.Encode(summary); err != nil {
			summaryFile.Close()
			return fmt.Errorf("failed to encode summary to json: %w", err)
		}
		if err := summaryFile.Close(); err != nil {
			return err
		}
	}

	return w.file.Close()
}
