package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/adibhanna/timetracker/internal/config"
	"github.com/adibhanna/timetracker/internal/models"
)

// Storage appends finished entries to the two logs in the data directory.
// Entries are never read back, rewritten or removed.
type Storage struct {
	dataDir   string
	jsonlPath string
	csvPath   string
}

func New(cfg config.Config) (*Storage, error) {
	s := &Storage{
		dataDir:   cfg.DataDir,
		jsonlPath: cfg.JSONLPath,
		csvPath:   cfg.CSVPath,
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	// Creates the tabular log with its header row if it is missing or empty.
	if err := s.writeCSV(func(*csv.Writer) error { return nil }); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(s.jsonlPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create jsonl log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("create jsonl log: %w", err)
	}

	return s, nil
}

// Append writes entry to the structured log and then to the tabular log.
// A failure in either one fails the whole append.
func (s *Storage) Append(entry models.TimeEntry) error {
	if err := s.appendJSONL(entry); err != nil {
		return err
	}
	return s.writeCSV(func(w *csv.Writer) error {
		return w.Write(entry.Row())
	})
}

func (s *Storage) appendJSONL(entry models.TimeEntry) (err error) {
	f, err := os.OpenFile(s.jsonlPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("append jsonl: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("append jsonl: %w", cerr)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("append jsonl: %w", err)
	}
	return nil
}

// writeCSV opens the tabular log for appending, writes the header when the
// file is empty and then lets write add its rows.
func (s *Storage) writeCSV(write func(w *csv.Writer) error) (err error) {
	f, err := os.OpenFile(s.csvPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("append csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("append csv: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("append csv: %w", err)
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if info.Size() == 0 {
		if err := w.Write(models.CSVHeader); err != nil {
			return fmt.Errorf("append csv: %w", err)
		}
	}
	if err := write(w); err != nil {
		return fmt.Errorf("append csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append csv: %w", err)
	}
	return nil
}
