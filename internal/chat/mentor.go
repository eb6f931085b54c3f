package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/ai"
	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

// WelcomeMessage opens every mentor session
const WelcomeMessage = "Hi Cheenu! I'm ALOO, your JEE mentor. Ready to master the laws of physics or crack some complex equations? Let's get you to that IIT!"

// Responder answers one chat turn given the session history
type Responder interface {
	Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

// Mentor keeps append-only chat sessions in memory. Sessions are never
// persisted and disappear on restart.
type Mentor struct {
	responder Responder
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string][]models.ChatMessage
}

// NewMentor creates a mentor over the given responder
func NewMentor(responder Responder) *Mentor {
	return &Mentor{
		responder: responder,
		now:       time.Now,
		sessions:  make(map[string][]models.ChatMessage),
	}
}

// Open starts a new session seeded with the welcome message and returns its id
func (m *Mentor) Open() (string, []models.ChatMessage) {
	sessionID := uuid.NewString()
	welcome := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleModel,
		Text:      WelcomeMessage,
		Timestamp: m.now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = []models.ChatMessage{welcome}
	history := append([]models.ChatMessage(nil), m.sessions[sessionID]...)
	m.mu.Unlock()

	return sessionID, history
}

// History returns a copy of the session transcript
func (m *Mentor) History(sessionID string) ([]models.ChatMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return append([]models.ChatMessage(nil), history...), true
}

// Send appends the user message, asks the responder and appends its reply.
// A responder failure degrades to a fallback reply instead of an error; the
// chat never breaks the UI.
func (m *Mentor) Send(ctx context.Context, sessionID, text string) (string, models.ChatMessage, error) {
	m.mu.Lock()
	history, ok := m.sessions[sessionID]
	if !ok {
		// Unknown or omitted session id starts a fresh session
		sessionID = uuid.NewString()
		history = []models.ChatMessage{{
			ID:        uuid.NewString(),
			Role:      models.RoleModel,
			Text:      WelcomeMessage,
			Timestamp: m.now(),
		}}
	}

	userMessage := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Text:      text,
		Timestamp: m.now(),
	}
	history = append(history, userMessage)
	m.sessions[sessionID] = history
	priorHistory := append([]models.ChatMessage(nil), history[:len(history)-1]...)
	m.mu.Unlock()

	replyText, err := m.responder.Chat(ctx, priorHistory, text)
	if err != nil {
		log.Printf("Mentor chat failed: %v", err)
		replyText = ai.ChatFallbackReply
	}

	reply := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleModel,
		Text:      replyText,
		Timestamp: m.now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = append(m.sessions[sessionID], reply)
	m.mu.Unlock()

	return sessionID, reply, nil
}
