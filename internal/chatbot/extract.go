package chatbot

import (
	"regexp"
	"strings"

	"crm_backend/platform/phone"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}`)

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:named|called)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`customer\s+(?:for\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
		regexp.MustCompile(`(?:add|create)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
	}

	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`from\s+([A-Z][A-Za-z\s&]+?)(?:\s*,|\s+email|\s+contact|$)`),
		regexp.MustCompile(`company[:\s]\s*([A-Z][A-Za-z\s&]+?)(?:\s*,|\s+email|$)`),
		regexp.MustCompile(`\b(?:works\s+at|at)\s+([A-Z][A-Za-z\s&]+?)(?:\s*,|\s+email|\s+contact|$)`),
	}
)

const maxCompanyLength = 50

// extractCustomerData pulls name, email, phone, and company out of free
// text with pattern matching. Missing fields are simply absent from the
// result.
func extractCustomerData(message string) map[string]string {
	extracted := map[string]string{}

	if email := emailPattern.FindString(message); email != "" {
		extracted["email"] = email
	}

	if raw := phonePattern.FindString(message); raw != "" {
		extracted["phone"] = phone.NormalizeE164(raw)
	}

	for _, pattern := range namePatterns {
		if match := pattern.FindStringSubmatch(message); match != nil {
			extracted["name"] = strings.TrimSpace(match[1])
			break
		}
	}

	for _, pattern := range companyPatterns {
		match := pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		if company, ok := cleanCompany(match[1]); ok {
			extracted["company"] = company
			break
		}
	}

	return extracted
}

// cleanCompany trims trailing punctuation and rejects values too long or
// containing markup brackets.
func cleanCompany(raw string) (string, bool) {
	company := strings.TrimSpace(raw)
	company = strings.TrimRight(company, ".,!?;:")
	company = strings.TrimSpace(company)

	if company == "" || len(company) > maxCompanyLength {
		return "", false
	}
	if strings.ContainsAny(company, "<>{}") {
		return "", false
	}
	return company, true
}
