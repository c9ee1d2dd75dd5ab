// Package chatbot implements the conversational assistant: instant
// greeting replies, keyword-pattern intent matching, AI-backed analysis
// with a strict JSON response contract, and deterministic fallbacks.
package chatbot

import "strings"

// quickGreetings map exact lowercase messages (optionally with a trailing
// question mark) to instant replies.
var quickGreetings = map[string]string{
	"hi":             "Hi there! How can I help you today?",
	"hello":          "Hello! What can I assist you with?",
	"hey":            "Hey! How may I help you?",
	"how are you":    "I'm doing great, thank you! How can I assist you today?",
	"good morning":   "Good morning! What can I help you with?",
	"good afternoon": "Good afternoon! How may I assist you?",
}

var customerKeywords = []string{"create customer", "add customer", "new customer", "customer named"}

var crmKeywords = []string{"what is crm", "explain crm", "tell me about crm"}

var pricingKeywords = []string{"price", "cost", "pricing", "how much"}

const (
	crmAnswer = "CRM stands for Customer Relationship Management. It's a system that helps businesses manage customer interactions, track leads, automate workflows, and make data-driven decisions!"

	crmAnswerFallback = "CRM stands for Customer Relationship Management. It's a system that helps businesses manage customer interactions, track leads, automate workflows, and make data-driven decisions to increase sales!"

	pricingAnswer = "I'd be happy to discuss our pricing! Our CRM offers flexible plans based on your team size. Would you like to schedule a call with our sales team?"

	pricingAnswerFallback = "I'd be happy to discuss our pricing options! Our CRM offers flexible plans based on your team size and needs. Would you like to schedule a call with our sales team?"

	defaultAnswer = "I'm here to help! I can assist you with creating customers, answering questions about CRM, or connecting you with our team. What would you like to know?"
)

// analysis is the normalized outcome of any intent path.
type analysis struct {
	Intent    string
	Action    string
	Extracted map[string]string
	Response  string
}

// greetingReply returns the instant reply for exact greeting messages.
func greetingReply(message string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for greeting, response := range quickGreetings {
		if normalized == greeting || normalized == greeting+"?" {
			return response, true
		}
	}
	return "", false
}

// quickPatternCheck resolves common intents without the AI. A nil result
// means AI analysis is needed.
func quickPatternCheck(message string) *analysis {
	lower := strings.ToLower(strings.TrimSpace(message))

	if containsAny(lower, customerKeywords) {
		extracted := extractCustomerData(message)

		var parts []string
		if name := extracted["name"]; name != "" {
			parts = append(parts, "named "+name)
		}
		if company := extracted["company"]; company != "" {
			parts = append(parts, "from "+company)
		}
		if email := extracted["email"]; email != "" {
			parts = append(parts, "with email "+email)
		}

		response := "I'll create that customer for you!"
		if len(parts) > 0 {
			response = "I'll create a customer " + strings.Join(parts, " ") + "!"
		}
		return &analysis{
			Intent:    "add_customer",
			Action:    "add_customer",
			Extracted: extracted,
			Response:  response,
		}
	}

	if containsAny(lower, crmKeywords) {
		return &analysis{Intent: "question_about_crm", Extracted: map[string]string{}, Response: crmAnswer}
	}

	if containsAny(lower, pricingKeywords) {
		return &analysis{Intent: "pricing", Extracted: map[string]string{}, Response: pricingAnswer}
	}

	return nil
}

// fallbackAnalysis is the last resort when the AI path fails or returns
// nothing parseable.
func fallbackAnalysis(message string) analysis {
	lower := strings.ToLower(message)

	if containsAny(lower, customerKeywords) {
		return analysis{
			Intent:    "add_customer",
			Action:    "add_customer",
			Extracted: extractCustomerData(message),
			Response:  "I'll create a customer with the information you provided.",
		}
	}

	if containsAny(lower, crmKeywords) {
		return analysis{Intent: "question_about_crm", Extracted: map[string]string{}, Response: crmAnswerFallback}
	}

	if containsAny(lower, pricingKeywords) {
		return analysis{Intent: "pricing", Extracted: map[string]string{}, Response: pricingAnswerFallback}
	}

	return analysis{Intent: "general", Extracted: map[string]string{}, Response: defaultAnswer}
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
