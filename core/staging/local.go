package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStager stages files under <root>/<job id>/<name>.
type LocalStager struct {
	root string
}

// NewLocalStager creates a stager rooted at root.
func NewLocalStager(root string) *LocalStager {
	return &LocalStager{root: root}
}

func (s *LocalStager) jobDir(jobID string) string {
	return filepath.Join(s.root, filepath.Base(jobID))
}

// Stage writes r to the job directory, creating it when needed.
func (s *LocalStager) Stage(_ context.Context, jobID, name string, r io.Reader) (string, error) {
	dir := s.jobDir(jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create job directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// Open opens a staged file.
func (s *LocalStager) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// Cleanup removes the job directory. A missing directory is not an error.
func (s *LocalStager) Cleanup(_ context.Context, jobID string) error {
	if err := os.RemoveAll(s.jobDir(jobID)); err != nil {
		return fmt.Errorf("failed to remove job directory: %w", err)
	}
	return nil
}

// Jobs lists the job directories under the root. A missing root has none.
func (s *LocalStager) Jobs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list staging root: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
