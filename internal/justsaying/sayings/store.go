// Package sayings reads and updates the CSV queue of sayings.
package sayings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Status values written by the pipeline.
const (
	StatusQueued    = "queued"
	StatusPublished = "published"
)

// DateLayout is the format of the date column.
const DateLayout = "2006-01-02"

// ErrNoHeader is returned for an empty CSV file.
var ErrNoHeader = errors.New("sayings csv has no header row")

// Saying is one row of the queue. Fields holds every column, including ones the pipeline ignores.
type Saying struct {
	ID          string
	Date        string
	Text        string
	Translation string
	Hashtags    string
	ImageStyle  string
	Status      string
	Fields      map[string]string
}

func fromRecord(header, record []string) Saying {
	fields := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(record) {
			fields[col] = record[i]
		} else {
			fields[col] = ""
		}
	}
	style := strings.TrimSpace(fields["image_style"])
	if style == "" {
		style = "classic"
	}
	return Saying{
		ID:          strings.TrimSpace(fields["id"]),
		Date:        strings.TrimSpace(fields["date"]),
		Text:        strings.TrimSpace(fields["text"]),
		Translation: strings.TrimSpace(fields["translation"]),
		Hashtags:    strings.TrimSpace(fields["hashtags"]),
		ImageStyle:  style,
		Status:      fields["status"],
		Fields:      fields,
	}
}

// Queued reports whether the row is waiting to be posted.
func (s Saying) Queued() bool {
	return strings.ToLower(strings.TrimSpace(s.Status)) == StatusQueued
}

// Store is a CSV file of sayings.
type Store struct {
	path string
}

// Open returns a Store for path. The file is read lazily.
func Open(path string) *Store { return &Store{path: path} }

// Load reads every row.
func (s *Store) Load() ([]Saying, error) {
	header, records, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]Saying, 0, len(records))
	for _, rec := range records {
		out = append(out, fromRecord(header, rec))
	}
	return out, nil
}

// Pick returns the first queued row dated on or before today (YYYY-MM-DD).
func Pick(rows []Saying, today string) (Saying, bool) {
	for _, r := range rows {
		if r.Queued() && r.Date <= today {
			return r, true
		}
	}
	return Saying{}, false
}

// SetStatus rewrites the status of the first row with the given id.
// It reports false and leaves the file untouched when no row matches.
func (s *Store) SetStatus(id, status string) (bool, error) {
	header, records, err := s.read()
	if err != nil {
		return false, err
	}
	idCol, statusCol := indexOf(header, "id"), indexOf(header, "status")
	if idCol < 0 {
		return false, fmt.Errorf("sayings csv %s has no id column", s.path)
	}
	if statusCol < 0 {
		header = append(header, "status")
		statusCol = len(header) - 1
	}

	changed := false
	for i, rec := range records {
		if idCol < len(rec) && rec[idCol] == id {
			for len(rec) < len(header) {
				rec = append(rec, "")
			}
			rec[statusCol] = status
			records[i] = rec
			changed = true
			break
		}
	}
	if !changed {
		return false, nil
	}
	if err := s.write(header, records); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) read() ([]string, [][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sayings csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read sayings header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read sayings rows: %w", err)
	}
	return header, records, nil
}

func (s *Store) write(header []string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sayings-*.csv")
	if err != nil {
		return fmt.Errorf("create temp csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write sayings header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write sayings rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp csv: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace sayings csv: %w", err)
	}
	return nil
}

func indexOf(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}
