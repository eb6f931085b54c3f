package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/ai"
	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

type fakeResponder struct {
	reply       string
	err         error
	gotHistory  []models.ChatMessage
	gotMessages []string
}

func (r *fakeResponder) Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	r.gotHistory = append([]models.ChatMessage(nil), history...)
	r.gotMessages = append(r.gotMessages, message)
	return r.reply, r.err
}

func TestOpenSeedsWelcomeMessage(t *testing.T) {
	mentor := NewMentor(&fakeResponder{})

	sessionID, history := mentor.Open()
	if sessionID == "" {
		t.Fatal("expected a session id")
	}
	if len(history) != 1 || history[0].Role != models.RoleModel || history[0].Text != WelcomeMessage {
		t.Errorf("expected welcome transcript, got %+v", history)
	}
}

func TestSendAppendsBothTurns(t *testing.T) {
	responder := &fakeResponder{reply: "Start from the work-energy theorem."}
	mentor := NewMentor(responder)

	sessionID, _ := mentor.Open()
	gotID, reply, err := mentor.Send(context.Background(), sessionID, "How do I attack pulley problems?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotID != sessionID {
		t.Errorf("expected same session id, got %q", gotID)
	}
	if reply.Role != models.RoleModel || reply.Text != responder.reply {
		t.Errorf("unexpected reply: %+v", reply)
	}

	// History passed to the responder excludes the in-flight user message
	if len(responder.gotHistory) != 1 || responder.gotHistory[0].Text != WelcomeMessage {
		t.Errorf("unexpected responder history: %+v", responder.gotHistory)
	}

	history, ok := mentor.History(sessionID)
	if !ok {
		t.Fatal("expected session to exist")
	}
	if len(history) != 3 {
		t.Fatalf("expected welcome + user + reply, got %d messages", len(history))
	}
	if history[1].Role != models.RoleUser || history[2].Role != models.RoleModel {
		t.Error("expected alternating roles in transcript")
	}
}

func TestSendWithUnknownSessionStartsFresh(t *testing.T) {
	mentor := NewMentor(&fakeResponder{reply: "Hello!"})

	sessionID, _, err := mentor.Send(context.Background(), "", "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a fresh session id")
	}

	history, ok := mentor.History(sessionID)
	if !ok || len(history) != 3 {
		t.Fatalf("expected seeded session with 3 messages, got %d", len(history))
	}
	if history[0].Text != WelcomeMessage {
		t.Error("expected fresh session to start with the welcome message")
	}
}

func TestResponderFailureDegradesToFallback(t *testing.T) {
	mentor := NewMentor(&fakeResponder{err: fmt.Errorf("cortex offline")})

	sessionID, reply, err := mentor.Send(context.Background(), "", "anyone there?")
	if err != nil {
		t.Fatalf("Send must not fail on responder errors, got %v", err)
	}
	if reply.Text != ai.ChatFallbackReply {
		t.Errorf("expected fallback reply, got %q", reply.Text)
	}

	// The failed turn still lands in the transcript
	history, _ := mentor.History(sessionID)
	if len(history) != 3 {
		t.Errorf("expected transcript to keep both turns, got %d", len(history))
	}
}
