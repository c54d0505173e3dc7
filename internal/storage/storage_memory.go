package storage

import (
	"context"
	"sync"

	"redirector/internal/domain/models"
)

// StorageMemory - journal kept in memory for the life of the process.
type StorageMemory struct {
	entries []models.JournalEntry
	mu      sync.Mutex
}

// NewStorageMemory creates an empty in-memory journal.
func NewStorageMemory() *StorageMemory {
	return &StorageMemory{}
}

// Record appends e.
func (s *StorageMemory) Record(_ context.Context, e models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, prepareEntry(e))
	return nil
}

// Recent returns at most limit entries, newest first.
func (s *StorageMemory) Recent(_ context.Context, limit int) ([]models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return newest(s.entries, limit), nil
}

// Ping always succeeds.
func (s *StorageMemory) Ping() error {
	return nil
}

// Close does nothing.
func (s *StorageMemory) Close() error {
	return nil
}
