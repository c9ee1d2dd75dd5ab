package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"crm_backend/platform/ai"
	"crm_backend/platform/logger"
)

// Reply is the assistant's answer to one message.
type Reply struct {
	Message       string            `json:"message"`
	Intent        string            `json:"intent"`
	Action        string            `json:"action,omitempty"`
	ExtractedData map[string]string `json:"extracted_data"`
	Timestamp     time.Time         `json:"timestamp"`
}

// jsonObjectPattern finds the first balanced-brace JSON object in raw
// model output, tolerating one level of nesting.
var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

const analysisPromptFormat = `Analyze: %q
Respond ONLY with JSON:
{"intent":"add_customer|question|greeting|general","action":"add_customer|null","name":"name or null","email":"email or null","company":"company or null","response":"brief response"}`

// Service routes messages through greeting, pattern, AI, and fallback
// layers. The AI client may be nil; everything then stays deterministic.
type Service struct {
	ai    *ai.Client
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewService(aiClient *ai.Client, store Store, log *logger.Logger) *Service {
	return &Service{ai: aiClient, store: store, log: log, now: time.Now}
}

// ProcessMessage answers one message and records the turn in the session
// history. Processing never fails; history write errors are only logged.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, message string) Reply {
	reply := s.answer(ctx, message)
	reply.Timestamp = s.now()

	if sessionID != "" && s.store != nil {
		turn := Turn{
			Message:   message,
			Response:  reply.Message,
			Intent:    reply.Intent,
			Timestamp: reply.Timestamp,
		}
		if err := s.store.Append(ctx, sessionID, turn); err != nil && s.log != nil {
			s.log.Error("append chat turn failed", "session_id", sessionID, "error", err)
		}
	}
	return reply
}

func (s *Service) answer(ctx context.Context, message string) Reply {
	if response, ok := greetingReply(message); ok {
		return Reply{Message: response, Intent: "greeting", ExtractedData: map[string]string{}}
	}

	result := s.analyze(ctx, message)
	return Reply{
		Message:       result.Response,
		Intent:        result.Intent,
		Action:        result.Action,
		ExtractedData: result.Extracted,
	}
}

func (s *Service) analyze(ctx context.Context, message string) analysis {
	if quick := quickPatternCheck(message); quick != nil {
		return *quick
	}

	if s.ai != nil {
		if result, err := s.analyzeWithAI(ctx, message); err == nil {
			return result
		} else if s.log != nil {
			s.log.AIFallback("chat analysis", err)
		}
	}
	return fallbackAnalysis(message)
}

func (s *Service) analyzeWithAI(ctx context.Context, message string) (analysis, error) {
	prompt := fmt.Sprintf(analysisPromptFormat, message)
	raw, err := s.ai.Generate(ctx, prompt, 150)
	if err != nil {
		return analysis{}, fmt.Errorf("generate analysis: %w", err)
	}

	jsonStr := jsonObjectPattern.FindString(raw)
	if jsonStr == "" {
		return analysis{}, errors.New("no JSON object in model output")
	}

	var parsed struct {
		Intent   string `json:"intent"`
		Action   string `json:"action"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Company  string `json:"company"`
		Phone    string `json:"phone"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return analysis{}, fmt.Errorf("parse analysis JSON: %w", err)
	}

	extracted := map[string]string{}
	for field, value := range map[string]string{
		"name":    parsed.Name,
		"email":   parsed.Email,
		"company": parsed.Company,
		"phone":   parsed.Phone,
	} {
		if v := cleanModelValue(value); v != "" {
			extracted[field] = v
		}
	}

	intent := parsed.Intent
	if intent == "" {
		intent = "general"
	}
	response := parsed.Response
	if response == "" {
		response = "I'm here to help!"
	}
	return analysis{
		Intent:    intent,
		Action:    cleanModelValue(parsed.Action),
		Extracted: extracted,
		Response:  response,
	}, nil
}

// cleanModelValue drops the literal "null" strings models emit for
// missing fields.
func cleanModelValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "null") {
		return ""
	}
	return value
}

// ExtractCustomerData resolves customer fields from free text, preferring
// the AI analysis and falling back to pattern extraction.
func (s *Service) ExtractCustomerData(ctx context.Context, message string) map[string]string {
	result := s.analyze(ctx, message)
	if len(result.Extracted) > 0 {
		return result.Extracted
	}
	return extractCustomerData(message)
}

// Summary describes a session's conversation. Longer histories get an
// AI-written summary of the last ten turns.
func (s *Service) Summary(ctx context.Context, sessionID string) string {
	var history []Turn
	if s.store != nil {
		var err error
		history, err = s.store.History(ctx, sessionID)
		if err != nil && s.log != nil {
			s.log.Error("load chat history failed", "session_id", sessionID, "error", err)
		}
	}
	if len(history) == 0 {
		return "No conversation history available."
	}

	summary := fmt.Sprintf("Conversation with session %s:\nTotal messages: %d\n", sessionID, len(history))

	if len(history) > 3 && s.ai != nil {
		recent := history
		if len(recent) > 10 {
			recent = recent[len(recent)-10:]
		}
		lines := make([]string, 0, len(recent))
		for _, turn := range recent {
			lines = append(lines, "- "+turn.Message)
		}
		prompt := fmt.Sprintf("Summarize this customer conversation:\n%s\n\nSummary:", strings.Join(lines, "\n"))
		if generated, err := s.ai.Generate(ctx, prompt, 100); err == nil {
			summary += generated
		} else if s.log != nil {
			s.log.AIFallback("conversation summary", err)
		}
	}
	return summary
}
