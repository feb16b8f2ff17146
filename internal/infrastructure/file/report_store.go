package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReportStore writes exported error reports under a fixed directory.
type ReportStore struct {
	Dir string
}

func NewReportStore(dir string) *ReportStore {
	if dir == "" {
		dir = "."
	}
	return &ReportStore{Dir: dir}
}

func (s *ReportStore) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir %s: %w", s.Dir, err)
	}

	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
