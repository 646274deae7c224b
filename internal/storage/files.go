package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrChunkTooLarge = errors.New("chunk exceeds maximum size")

// FileManager owns the on-disk report directory and enforces size limits on
// recording chunks received from clients.
type FileManager struct {
	baseDir       string
	reportDir     string
	maxChunkBytes int64
}

const sniffLen = 512

func NewFileManager(baseDir string, maxChunkBytes int64) (*FileManager, error) {
	fm := &FileManager{
		baseDir:       baseDir,
		reportDir:     filepath.Join(baseDir, "reports"),
		maxChunkBytes: maxChunkBytes,
	}

	dirs := []string{fm.baseDir, fm.reportDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	return fm, nil
}

func (fm *FileManager) ReportPath(id string) string {
	return filepath.Join(fm.reportDir, fmt.Sprintf("%s.pdf", id))
}

func (fm *FileManager) RemoveReport(id string) {
	_ = os.Remove(fm.ReportPath(id))
}

// ReadChunk reads one recording chunk fully, rejecting bodies over the
// configured limit. The returned content type is sniffed from the first bytes;
// unrecognised media is still accepted because browsers emit headerless
// continuation chunks.
func (fm *FileManager) ReadChunk(r io.Reader) ([]byte, string, error) {
	limit := fm.maxChunkBytes
	reader := r
	if limit > 0 {
		reader = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("read chunk: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, "", ErrChunkTooLarge
	}

	sample := data
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	contentType := "application/octet-stream"
	if len(sample) > 0 {
		contentType = strings.ToLower(http.DetectContentType(sample))
	}

	return data, contentType, nil
}
