package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

// StorageKey is the fixed key of the single persisted progress slot. It is
// part of the backup format and must never change, or old backups stop
// importing cleanly.
const StorageKey = "cheenu-jee-protocol-v1"

// Repository abstracts the persisted key-value slot the store writes to
type Repository interface {
	LoadPayload(key string) (string, bool, error)
	SavePayload(key, payload string) error
}

// Store owns the authoritative UserProgress snapshot. Every mutation replaces
// the whole in-memory value and writes the full serialization back to the
// repository, so readers never observe a partially updated aggregate.
type Store struct {
	mu      sync.RWMutex
	repo    Repository
	current models.UserProgress
}

// NewStore creates a store over the given repository and loads the persisted
// snapshot. Missing or corrupt payloads fail soft to defaults.
func NewStore(repo Repository) *Store {
	s := &Store{
		repo:    repo,
		current: models.DefaultProgress(),
	}
	s.load()
	return s
}

// load reads the persisted payload and overlays it field by field onto a
// complete default value, so payloads saved by older versions pick up safe
// defaults for fields they don't carry.
func (s *Store) load() {
	payload, ok, err := s.repo.LoadPayload(StorageKey)
	if err != nil {
		log.Printf("Failed to load progress, starting from defaults: %v", err)
		return
	}
	if !ok {
		return
	}

	state := models.DefaultProgress()
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		log.Printf("Corrupt progress payload, starting from defaults: %v", err)
		return
	}

	normalize(&state)
	s.current = state
}

// normalize repairs the invariants the merge cannot express: slices must be
// non-nil and the seen-question history must respect its cap.
func normalize(state *models.UserProgress) {
	if state.SeenQuestions == nil {
		state.SeenQuestions = []string{}
	}
	if state.Tasks == nil {
		state.Tasks = []models.Task{}
	}
	if excess := len(state.SeenQuestions) - models.SeenQuestionsCap; excess > 0 {
		state.SeenQuestions = append([]string{}, state.SeenQuestions[excess:]...)
	}
}

// Snapshot returns a deep copy of the current progress
func (s *Store) Snapshot() models.UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// update applies mutate to a copy of the current snapshot, swaps it in and
// persists it. The in-memory state is kept even if the write fails, so a
// transient storage error never loses the user's action.
func (s *Store) update(mutate func(*models.UserProgress)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	mutate(&next)
	s.current = next

	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	payload, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("failed to serialize progress: %v", err)
	}
	return s.repo.SavePayload(StorageKey, string(payload))
}

// RecordCorrectAnswer increments the subject score and the total solved
// counter in one transition
func (s *Store) RecordCorrectAnswer(subject models.Subject) error {
	return s.update(func(p *models.UserProgress) {
		p.TotalQuestionsSolved++
		switch subject {
		case models.SubjectPhysics:
			p.PhysicsScore++
		case models.SubjectChemistry:
			p.ChemistryScore++
		case models.SubjectMathematics:
			p.MathematicsScore++
		}
	})
}

// RememberQuestion appends a question text to the duplicate-suppression
// history, evicting the oldest entries beyond the cap
func (s *Store) RememberQuestion(text string) error {
	return s.update(func(p *models.UserProgress) {
		p.SeenQuestions = append(p.SeenQuestions, text)
		if excess := len(p.SeenQuestions) - models.SeenQuestionsCap; excess > 0 {
			p.SeenQuestions = append([]string{}, p.SeenQuestions[excess:]...)
		}
	})
}

// SeenQuestions returns a copy of the full duplicate-suppression history
func (s *Store) SeenQuestions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.current.SeenQuestions...)
}

// AddTask appends a new task; blank text is a no-op and writes nothing
func (s *Store) AddTask(text string) (models.Task, bool, error) {
	if strings.TrimSpace(text) == "" {
		return models.Task{}, false, nil
	}

	var task models.Task
	err := s.update(func(p *models.UserProgress) {
		p.Tasks, task, _ = AddTask(p.Tasks, text)
	})
	return task, true, err
}

// ToggleTask flips completion of the task with the given id
func (s *Store) ToggleTask(id string) (bool, error) {
	var ok bool
	err := s.update(func(p *models.UserProgress) {
		p.Tasks, ok = ToggleTask(p.Tasks, id)
	})
	return ok, err
}

// DeleteTask removes the task with the given id
func (s *Store) DeleteTask(id string) (bool, error) {
	var ok bool
	err := s.update(func(p *models.UserProgress) {
		p.Tasks, ok = DeleteTask(p.Tasks, id)
	})
	return ok, err
}

// SetNotificationsEnabled records the reminder opt-in flag
func (s *Store) SetNotificationsEnabled(enabled bool) error {
	return s.update(func(p *models.UserProgress) {
		p.NotificationsEnabled = enabled
	})
}

// CommitQuote stores a freshly fetched quote together with its refresh date.
// Both fields move in one transition so a failed fetch never burns the day.
func (s *Store) CommitQuote(quote, date string) error {
	return s.update(func(p *models.UserProgress) {
		p.DailyQuote = quote
		p.LastQuoteDate = date
	})
}

// LastQuoteDate returns the date of the last successful quote refresh
func (s *Store) LastQuoteDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.LastQuoteDate
}

// ExportSnapshot serializes the current state for a backup download
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize progress: %v", err)
	}
	return payload, nil
}

// ImportWhole replaces the entire state with a restored backup. The payload
// goes through the same default-merge as load plus a sanity check, so a
// malformed file is rejected instead of silently corrupting state.
func (s *Store) ImportWhole(payload []byte) error {
	state := models.DefaultProgress()
	if err := json.Unmarshal(payload, &state); err != nil {
		return fmt.Errorf("invalid progress payload: %v", err)
	}
	if err := validateImport(state); err != nil {
		return err
	}
	normalize(&state)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = state
	return s.persistLocked()
}

func validateImport(state models.UserProgress) error {
	if state.PhysicsScore < 0 || state.ChemistryScore < 0 ||
		state.MathematicsScore < 0 || state.TotalQuestionsSolved < 0 {
		return fmt.Errorf("invalid progress payload: negative score")
	}
	for _, t := range state.Tasks {
		if t.ID == "" {
			return fmt.Errorf("invalid progress payload: task without id")
		}
	}
	return nil
}
