package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/guru03-coder/SlideSense/internal/models"
)

var (
	// ErrNotFound indicates the requested submission does not exist.
	ErrNotFound = errors.New("submission not found")
	// ErrDuplicateID indicates an insert collided with an existing record.
	ErrDuplicateID = errors.New("submission id already exists")
)

// Store keeps every submission in memory and mirrors each mutation to a
// single JSON file holding one array of records. The file is rewritten whole
// through a temp-file rename, so readers never observe a partial document.
type Store struct {
	mu     sync.RWMutex
	path   string
	items  []models.Submission
	logger zerolog.Logger
}

// Open loads the data file at path. A missing file yields an empty store;
// the file is created on the first write.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path must not be empty")
	}

	s := &Store{
		path:   path,
		logger: logger.With().Str("component", "store").Logger(),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info().Str("path", path).Msg("data file absent, starting empty")
			return s, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.items); err != nil {
			return nil, fmt.Errorf("failed to parse data file: %w", err)
		}
	}

	s.logger.Info().Int("submissions", len(s.items)).Str("path", path).Msg("data file loaded")
	return s, nil
}

// List returns a snapshot of every stored submission.
func (s *Store) List() []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Submission, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the submission with the given identifier.
func (s *Store) Get(id string) (models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], nil
		}
	}
	return models.Submission{}, ErrNotFound
}

// Append stores a new submission and persists the updated set.
func (s *Store) Append(submission models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == submission.ID {
			return ErrDuplicateID
		}
	}

	s.items = append(s.items, submission)
	if err := s.persistLocked(); err != nil {
		s.items = s.items[:len(s.items)-1]
		return err
	}
	return nil
}

// Update applies mutate to a copy of the stored record and persists the
// result. The callback runs under the store lock, so read-check-write
// sequences inside it are atomic with respect to other writers. When mutate
// returns an error the store is left untouched and the error is passed
// through unchanged.
func (s *Store) Update(id string, mutate func(*models.Submission) error) (models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}

		updated := s.items[i]
		if err := mutate(&updated); err != nil {
			return models.Submission{}, err
		}

		previous := s.items[i]
		s.items[i] = updated
		if err := s.persistLocked(); err != nil {
			s.items[i] = previous
			return models.Submission{}, err
		}
		return updated, nil
	}

	return models.Submission{}, ErrNotFound
}

// Replace swaps the full submission set, used when seeding demo data.
func (s *Store) Replace(items []models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.items
	s.items = make([]models.Submission, len(items))
	copy(s.items, items)

	if err := s.persistLocked(); err != nil {
		s.items = previous
		return err
	}
	return nil
}

// Len reports the number of stored submissions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) persistLocked() error {
	items := s.items
	if items == nil {
		items = []models.Submission{}
	}

	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode submissions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".submissions-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp data file: %w", err)
	}

	_, writeErr := tmp.Write(payload)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		if writeErr != nil {
			return fmt.Errorf("failed to write data file: %w", writeErr)
		}
		return fmt.Errorf("failed to write data file: %w", closeErr)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	return nil
}
