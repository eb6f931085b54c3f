package quiz

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

const (
	// maxAttempts caps generation retries to bound latency and API cost
	maxAttempts = 3
	// historyHintSize is how many recent question texts are passed to the
	// generator as a soft duplicate-avoidance hint
	historyHintSize = 20
	// maxPending bounds the set of questions awaiting an answer
	maxPending = 32
)

// ErrNoFreshQuestion is returned when every attempt failed or produced a
// duplicate; the caller surfaces a retry action to the user.
var ErrNoFreshQuestion = errors.New("no fresh question available")

// ErrUnknownQuestion is returned when grading an id that is not pending
var ErrUnknownQuestion = errors.New("unknown question")

// ErrInvalidOption is returned when the answered option index is out of range
var ErrInvalidOption = errors.New("invalid option index")

// Generator produces practice questions from the AI backend
type Generator interface {
	GenerateQuestion(ctx context.Context, subject models.Subject, topic string, recentHistory []string) (*models.Question, error)
}

// Store is the slice of the progress store the quiz service needs
type Store interface {
	SeenQuestions() []string
	RememberQuestion(text string) error
	RecordCorrectAnswer(subject models.Subject) error
}

// Verdict is the result of grading one submitted answer
type Verdict struct {
	Correct            bool   `json:"correct"`
	CorrectAnswerIndex int    `json:"correctAnswerIndex"`
	Explanation        string `json:"explanation"`
}

// Service generates non-duplicate practice questions and grades answers.
// Accepted questions are held in memory until answered; only their text
// survives into the persisted seen-question history.
type Service struct {
	generator Generator
	store     Store

	mu           sync.Mutex
	pending      map[string]*models.Question
	pendingOrder []string
}

// NewService creates a quiz service
func NewService(generator Generator, store Store) *Service {
	return &Service{
		generator: generator,
		store:     store,
		pending:   make(map[string]*models.Question),
	}
}

// NextQuestion obtains a question that has not been seen before. Up to three
// attempts are made; each candidate is checked against the full seen history
// (case-insensitive, whitespace-trimmed), not just the hint window.
func (s *Service) NextQuestion(ctx context.Context, subject models.Subject, topic string) (*models.Question, error) {
	seen := s.store.SeenQuestions()

	hint := seen
	if len(hint) > historyHintSize {
		hint = hint[len(hint)-historyHintSize:]
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		question, err := s.generator.GenerateQuestion(ctx, subject, topic, hint)
		if err != nil {
			log.Printf("Question generation attempt %d/%d failed: %v", attempt, maxAttempts, err)
			continue
		}

		if containsNormalized(seen, question.Text) {
			log.Printf("Question generation attempt %d/%d returned a duplicate", attempt, maxAttempts)
			continue
		}

		if err := s.store.RememberQuestion(question.Text); err != nil {
			log.Printf("Failed to persist seen question: %v", err)
		}
		s.addPending(question)
		return question, nil
	}

	return nil, ErrNoFreshQuestion
}

func containsNormalized(seen []string, text string) bool {
	needle := normalize(text)
	for _, q := range seen {
		if normalize(q) == needle {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func (s *Service) addPending(question *models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[question.ID] = question
	s.pendingOrder = append(s.pendingOrder, question.ID)

	// Drop the oldest unanswered question beyond the cap
	for len(s.pendingOrder) > maxPending {
		oldest := s.pendingOrder[0]
		s.pendingOrder = s.pendingOrder[1:]
		delete(s.pending, oldest)
	}
}

func (s *Service) removePendingLocked(questionID string) {
	delete(s.pending, questionID)
	for i, id := range s.pendingOrder {
		if id == questionID {
			s.pendingOrder = append(s.pendingOrder[:i], s.pendingOrder[i+1:]...)
			break
		}
	}
}

// SubmitAnswer grades the first submission for a pending question. A correct
// answer increments the subject score and the total solved counter; a graded
// question is consumed so repeat submissions cannot farm score.
func (s *Service) SubmitAnswer(questionID string, optionIndex int) (*Verdict, error) {
	s.mu.Lock()
	question, ok := s.pending[questionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrUnknownQuestion
	}
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		// Leave the question pending so a malformed submission can be retried
		s.mu.Unlock()
		return nil, ErrInvalidOption
	}
	s.removePendingLocked(questionID)
	s.mu.Unlock()

	verdict := &Verdict{
		Correct:            optionIndex == question.CorrectAnswerIndex,
		CorrectAnswerIndex: question.CorrectAnswerIndex,
		Explanation:        question.Explanation,
	}

	if verdict.Correct {
		if err := s.store.RecordCorrectAnswer(question.Subject); err != nil {
			log.Printf("Failed to persist score update: %v", err)
		}
	}

	return verdict, nil
}
