package workbook

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ExportTo copies the workbook into dir under the same file name.
// An existing copy is only replaced when overwrite is set.
func (w *Workbook) ExportTo(dir string, overwrite bool) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dest := filepath.Join(dir, filepath.Base(w.path))
	if sameFile(dest, w.path) {
		return "", fmt.Errorf("export target is the workbook itself: %s", dest)
	}
	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return "", fmt.Errorf("%s: %w", dest, fs.ErrExist)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", classify(dir, err)
	}

	src, err := os.Open(w.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("nothing to export yet, %s does not exist", w.path)
		}
		return "", w.openError(err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, ".inctrack-export-*.tmp")
	if err != nil {
		return "", classify(dest, err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", classify(dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", classify(dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
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
