package db

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ExportTo writes a consistent copy of the database into dir
func (s *Store) ExportTo(dir string, overwrite bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dest := filepath.Join(dir, filepath.Base(s.path))
	if dest == s.path || sameFile(dest, s.path) {
		return "", fmt.Errorf("export target is the database itself: %s", dest)
	}
	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return "", fmt.Errorf("%s: %w", dest, fs.ErrExist)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", classify(dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".inctrack-export-%d.tmp", os.Getpid()))
	os.Remove(tmp)
	if err := s.db.Exec("VACUUM INTO ?", tmp).Error; err != nil {
		os.Remove(tmp)
		return "", classify(dest, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", classify(dest, err)
	}
	return dest, nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
