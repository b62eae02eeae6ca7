// Package workbook stores incidents and activity sessions in an Excel file.
//
// Every operation opens the file, works on it and closes it again, so the
// file on disk is always the source of truth and can be edited in Excel
// between commands. Writes go to a temporary file in the same directory
// which then replaces the workbook, so a failed save leaves it untouched.
package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/balkashynov/inctrack/internal/tracker"
)

const (
	// DefaultFileName is used when only a directory is configured
	DefaultFileName = "incident_numbers.xlsx"

	IncidentsSheet = "INCIDENTS"
	ActivitySheet  = "Activity"

	dateNumFmt     = "yyyy-mm-dd"
	dateTimeNumFmt = "yyyy-mm-dd hh:mm:ss"
)

var (
	IncidentHeaders = []string{"Created On", "Ticket ID", "Description"}
	ActivityHeaders = []string{"Ticket ID", "Start Time", "End Time"}
)

// ErrFileInUse means Excel (or another program) has the workbook open
var ErrFileInUse = errors.New("file is open in another program")

// Workbook is the backing file shared by the incident and activity tables.
// All access goes through one mutex so no two writes are ever in flight.
type Workbook struct {
	path string
	loc  *time.Location
	mu   sync.Mutex
}

// Open prepares the workbook at path. The file itself is created lazily by
// EnsureSchema or the first write.
func Open(path string) (*Workbook, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, classify(abs, err)
	}
	return &Workbook{path: abs, loc: time.Local}, nil
}

// Path returns the absolute location of the workbook file
func (w *Workbook) Path() string {
	return w.path
}

// Tickets returns the INCIDENTS table
func (w *Workbook) Tickets() *Tickets {
	return &Tickets{wb: w}
}

// Activities returns the Activity table
func (w *Workbook) Activities() *Activities {
	return &Activities{wb: w}
}

// ensureSheet creates the file and the sheet if needed. Nothing is written
// when both already exist with a header.
func (w *Workbook) ensureSheet(sheet string, headers []string) error {
	return w.update(func(f *excelize.File) (bool, error) {
		return ensureSheet(f, sheet, headers)
	})
}

// rows returns the raw cell values of a sheet, header included.
// A missing file or sheet reads as empty.
func (w *Workbook) rows(sheet string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, w.openError(err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx == -1 {
		return nil, nil
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// update loads the workbook (or starts a new one), lets fn change it and
// saves it when fn reports a change.
func (w *Workbook) update(fn func(f *excelize.File) (bool, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.load()
	if err != nil {
		return err
	}
	defer f.Close()

	dirty, err := fn(f)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	return w.save(f)
}

func (w *Workbook) load() (*excelize.File, error) {
	if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), IncidentsSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		return f, nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, w.openError(err)
	}
	return f, nil
}

// save writes f next to the workbook and renames it into place
func (w *Workbook) save(f *excelize.File) error {
	if err := w.checkNotInUse(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".inctrack-*.tmp")
	if err != nil {
		return classify(w.path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return classify(w.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return classify(w.path, err)
	}
	if err := tmp.Close(); err != nil {
		return classify(w.path, err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return classify(w.path, err)
	}
	committed = true
	return nil
}

// checkNotInUse looks for the owner file Excel keeps next to an open workbook
func (w *Workbook) checkNotInUse() error {
	owner := filepath.Join(filepath.Dir(w.path), "~$"+filepath.Base(w.path))
	if _, err := os.Stat(owner); err == nil {
		return &tracker.StorageWriteError{Path: w.path, Err: ErrFileInUse}
	}
	return nil
}

func (w *Workbook) openError(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &tracker.PermissionError{Path: w.path, Err: err}
	}
	return fmt.Errorf("failed to open workbook %s: %w", w.path, err)
}

// classify maps file system failures onto the storage error types
func classify(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &tracker.PermissionError{Path: path, Err: err}
	}
	return &tracker.StorageWriteError{Path: path, Err: err}
}
