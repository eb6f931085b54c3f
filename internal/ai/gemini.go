package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	questionModel = "gemini-3-pro-preview"
	flashModel    = "gemini-3-flash-preview"
)

// FallbackQuote is committed when the backend answers with an empty quote
const FallbackQuote = "The gates of IIT are waiting for your logic, Cheenu."

// ChatFallbackReply is returned to the user when the mentor backend is down
const ChatFallbackReply = "Cortex sync issue. I'm ALOO, still here though, just retry."

const mentorSystemInstruction = "You are ALOO, Cheenu's elite JEE mentor. LOGIC FIRST. " +
	"RULE: You MUST wrap EVERY mathematical symbol, variable, or equation in LaTeX delimiters ($...$ or $$...$$). " +
	"If you write T2, write it as $T_2$. If you write a fraction, write it as $\\frac{x}{y}$. " +
	"Never forget the dollar signs. Be encouraging and focus on engineering excellence."

// Gemini represents a client for the Google Gemini REST API
type Gemini struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Gemini client. A missing key does not fail construction;
// every call then reports a missing-credential error without touching the
// network, so the rest of the app degrades instead of refusing to start.
func New(apiKey string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewFromEnv creates a client configured from GEMINI_API_KEY
func NewFromEnv() *Gemini {
	return New(os.Getenv("GEMINI_API_KEY"))
}

// Request/response shapes of the generateContent endpoint

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	Temperature      float64         `json:"temperature,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// questionSchema constrains question generation to a parseable JSON object
var questionSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"text": {"type": "STRING", "description": "Direct JEE question. MANDATORY: Wrap ALL math in $...$ (inline) or $$...$$ (block)."},
		"options": {"type": "ARRAY", "items": {"type": "STRING"}, "description": "Options. MANDATORY: Wrap ALL math in $ delimiters."},
		"correctAnswerIndex": {"type": "INTEGER"},
		"explanation": {"type": "STRING", "description": "Detailed explanation. MANDATORY: Wrap ALL math/symbols in $ or $$ delimiters."},
		"topic": {"type": "STRING"}
	},
	"required": ["text", "options", "correctAnswerIndex", "explanation", "topic"]
}`)

// generateContent performs one call and returns the text of the first
// candidate
func (g *Gemini) generateContent(ctx context.Context, model string, request generateRequest) (string, error) {
	if g.apiKey == "" {
		return "", generationErrorf(KindMissingCredential, "GEMINI_API_KEY environment variable is not set")
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", generationErrorf(KindMalformed, "failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestData))
	if err != nil {
		return "", generationErrorf(KindUpstream, "failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", generationErrorf(KindTimeout, "request timed out: %v", err)
		}
		return "", generationErrorf(KindUpstream, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", generationErrorf(KindQuota, "API quota exhausted")
	}

	var response generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", generationErrorf(KindMalformed, "failed to decode response: %v", err)
	}

	if response.Error != nil {
		if response.Error.Status == "RESOURCE_EXHAUSTED" {
			return "", generationErrorf(KindQuota, "API error: %s", response.Error.Message)
		}
		return "", generationErrorf(KindUpstream, "API error: %s", response.Error.Message)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", generationErrorf(KindMalformed, "no response candidates returned")
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// GenerateQuestion requests a fresh multiple-choice question. The recent
// history is passed as a prompt hint only; the hard duplicate check stays
// with the caller.
func (g *Gemini) GenerateQuestion(ctx context.Context, subject models.Subject, topic string, recentHistory []string) (*models.Question, error) {
	prompt := fmt.Sprintf("Generate a high-yield JEE level %s MCQ. ", subject)
	if topic != "" {
		prompt += fmt.Sprintf("Topic: %s. ", topic)
	}
	prompt += "\n\nSTRICT FORMATTING RULE:\n" +
		"1. Every single mathematical symbol, variable ($x$, $T_1$, $\\Delta$), fraction ($\\frac{a}{b}$), or equation MUST be wrapped in dollar signs.\n" +
		"2. Use $...$ for inline math and $$...$$ for large standalone equations.\n" +
		"3. NEVER output raw LaTeX commands like \\frac without the $ wrapper.\n" +
		"4. Provide the response for Cheenu, a top-tier IIT aspirant."
	if len(recentHistory) > 0 {
		prompt += "\n\nAvoid repeating any of these recently asked questions:\n- " + strings.Join(recentHistory, "\n- ")
	}

	request := generateRequest{
		Contents: []content{{Role: "user", Parts: []contentPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:      0.7,
			ResponseMimeType: "application/json",
			ResponseSchema:   questionSchema,
		},
	}

	text, err := g.generateContent(ctx, questionModel, request)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Text               string   `json:"text"`
		Options            []string `json:"options"`
		CorrectAnswerIndex int      `json:"correctAnswerIndex"`
		Explanation        string   `json:"explanation"`
		Topic              string   `json:"topic"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, generationErrorf(KindMalformed, "failed to parse question payload: %v", err)
	}
	if parsed.Text == "" || len(parsed.Options) == 0 ||
		parsed.CorrectAnswerIndex < 0 || parsed.CorrectAnswerIndex >= len(parsed.Options) {
		return nil, generationErrorf(KindMalformed, "question payload failed validation")
	}

	return &models.Question{
		ID:                 uuid.NewString(),
		Text:               parsed.Text,
		Options:            parsed.Options,
		CorrectAnswerIndex: parsed.CorrectAnswerIndex,
		Explanation:        parsed.Explanation,
		Subject:            subject,
		Topic:              parsed.Topic,
	}, nil
}

// GenerateQuote requests a short motivational quote
func (g *Gemini) GenerateQuote(ctx context.Context) (string, error) {
	prompt := "Generate a short (max 15 words) motivational quote for Cheenu about his IIT-JEE 2026 goal."

	request := generateRequest{
		Contents: []content{{Role: "user", Parts: []contentPart{{Text: prompt}}}},
	}

	text, err := g.generateContent(ctx, flashModel, request)
	if err != nil {
		return "", err
	}

	quote := strings.TrimSpace(text)
	if quote == "" {
		return FallbackQuote, nil
	}
	return quote, nil
}

// Chat sends one mentor-chat turn with the full session history
func (g *Gemini) Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: m.Role, Parts: []contentPart{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: models.RoleUser, Parts: []contentPart{{Text: message}}})

	request := generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []contentPart{{Text: mentorSystemInstruction}}},
	}

	text, err := g.generateContent(ctx, flashModel, request)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
