package memory

import (
	"errors"
	"sync"

	"github.com/dbu-intelligence/navigator/internal/domain"
)

// ArchiveStore is an in-memory domain.ArchiveStore. It is NOT persistent: the
// archive lives as long as the process.
type ArchiveStore struct {
	mu      sync.RWMutex
	entries []domain.ArchiveEntry
	seen    map[domain.SessionID]struct{}
}

func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{
		seen: make(map[domain.SessionID]struct{}),
	}
}

// PrependEntry puts entry in front of the archive. A session is archived once.
func (s *ArchiveStore) PrependEntry(entry domain.ArchiveEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[entry.SessionID]; exists {
		return errors.New("session already archived")
	}

	s.seen[entry.SessionID] = struct{}{}
	s.entries = append([]domain.ArchiveEntry{entry}, s.entries...)
	return nil
}

// ListEntries returns up to limit entries, most recent first. limit <= 0 means all.
func (s *ArchiveStore) ListEntries(limit int) ([]domain.ArchiveEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]domain.ArchiveEntry, n)
	copy(out, s.entries[:n])
	return out, nil
}
