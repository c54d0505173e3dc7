package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"redirector/internal/domain/models"
	jsonmodels "redirector/internal/domain/models/json"

	"go.uber.org/zap"
)

// eventsBuffer is the number of entries waiting to be written.
const eventsBuffer = 100

// StorageFile - journal kept in memory and appended to a JSON-lines file.
type StorageFile struct {
	StorageMemory

	path   string
	file   io.WriteCloser
	Events chan models.JournalEntry
	sugar  *zap.SugaredLogger

	closeOnce sync.Once
	done      chan struct{}
	saving    bool
	closed    bool
	closeMu   sync.RWMutex
}

// NewStorageFile opens the journal file at path for appending, creating it if needed.
func NewStorageFile(path string, sugar *zap.SugaredLogger) (*StorageFile, error) {
	file, err := OpenFileAsWriter(path)
	if err != nil {
		return nil, err
	}
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}

	return &StorageFile{
		path:   path,
		file:   file,
		Events: make(chan models.JournalEntry, eventsBuffer),
		sugar:  sugar,
		done:   make(chan struct{}),
	}, nil
}

// Record stores e in memory and queues it for the file.
func (s *StorageFile) Record(ctx context.Context, e models.JournalEntry) error {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	e = prepareEntry(e)
	if err := s.StorageMemory.Record(ctx, e); err != nil {
		return err
	}

	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Restore loads the entries already written to the journal file.
func (s *StorageFile) Restore() error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", s.path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.sugar.Errorw("closing journal after restore", "error", err)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var j jsonmodels.JournalJSON
		if err := json.Unmarshal(scanner.Bytes(), &j); err != nil {
			return fmt.Errorf("journal %s line %d: %w", s.path, line, err)
		}
		s.entries = append(s.entries, j.Domain())
	}
	return scanner.Err()
}

// AutoSave starts writing queued entries to the file until Close.
func (s *StorageFile) AutoSave() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.saving || s.closed {
		return
	}
	s.saving = true

	go func() {
		defer close(s.done)
		for e := range s.Events {
			if err := s.backup(e); err != nil {
				s.sugar.Errorw("writing journal entry", "id", e.ID, "error", err)
			}
		}
	}()
}

func (s *StorageFile) backup(e models.JournalEntry) error {
	data, err := json.Marshal(jsonmodels.JournalToJSON(e))
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = s.file.Write(data)
	return err
}

// Close stops accepting entries, waits until the queued ones are written and
// closes the file.
func (s *StorageFile) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closeMu.Lock()
		s.closed = true
		close(s.Events)
		saving := s.saving
		s.closeMu.Unlock()

		if saving {
			<-s.done
		}
		err = s.file.Close()
	})
	return err
}

// OpenFileAsWriter opens a file for appending and creates the file if it does not exist.
func OpenFileAsWriter(path string) (io.WriteCloser, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644) //nolint:mnd // owner write, others read
	if err != nil {
		return nil, fmt.Errorf("error open file %s: %w", path, err)
	}
	return file, nil
}
