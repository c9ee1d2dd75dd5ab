// Package insights generates model-backed guidance: customer and
// business analyses, email drafts, sales pitches, sentiment, and churn
// risk. Every operation degrades to deterministic fallbacks when the
// model is unavailable.
package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/customers/repository"
	"crm_backend/platform/ai"
	"crm_backend/platform/logger"
)

const (
	insightTokens = 500
	emailTokens   = 300
	pitchTokens   = 400

	highValueScore     = 70
	recentInteractionD = 30 * 24 * time.Hour

	businessListLimit = 500
)

// CustomerInsights is the structured analysis of a single customer.
type CustomerInsights struct {
	Summary        string   `json:"summary"`
	Potential      string   `json:"potential"`
	NextActions    []string `json:"next_actions"`
	EngagementTips []string `json:"engagement_tips"`
	GeneratedAt    string   `json:"generated_at"`
}

// MetricsAnalysis is the deterministic metrics block of a business
// analysis.
type MetricsAnalysis struct {
	TotalCustomers      int    `json:"total_customers"`
	HighValueLeads      int    `json:"high_value_leads"`
	ConversionPotential string `json:"conversion_potential"`
	MarketCoverage      string `json:"market_coverage"`
}

// BusinessInsights is the strategic analysis of the whole book of
// business.
type BusinessInsights struct {
	Summary         string          `json:"summary"`
	MetricsAnalysis MetricsAnalysis `json:"metrics_analysis"`
	Recommendations []string        `json:"recommendations"`
	GeneratedAt     string          `json:"generated_at"`
}

// SentimentResult is the analysis of one piece of communication.
type SentimentResult struct {
	Analysis  string `json:"analysis"`
	Sentiment string `json:"sentiment"`
	Timestamp string `json:"timestamp"`
}

// ChurnRisk is the retention assessment for a customer.
type ChurnRisk struct {
	RiskAssessment      string   `json:"risk_assessment"`
	RiskLevel           string   `json:"risk_level"`
	RetentionStrategies []string `json:"retention_strategies"`
	AnalyzedAt          string   `json:"analyzed_at"`
}

// Service generates insights from customer data.
type Service struct {
	ai        *ai.Client
	customers repository.CustomerReader
	log       *logger.Logger
	now       func() time.Time
}

// New creates an insights service. A nil model client keeps all
// operations working on fallbacks.
func New(client *ai.Client, customers repository.CustomerReader, log *logger.Logger) *Service {
	return &Service{ai: client, customers: customers, log: log, now: time.Now}
}

// CustomerInsights analyzes a single customer.
func (s *Service) CustomerInsights(ctx context.Context, customerID uuid.UUID) (CustomerInsights, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return CustomerInsights{}, err
	}

	prompt := fmt.Sprintf(`Analyze the following customer data and provide actionable insights:

Customer: %s
Company: %s
Industry: %s
Status: %s
Lead Score: %.1f
Budget: $%.0f

Provide:
1. Customer potential assessment
2. Recommended next actions
3. Potential challenges
4. Opportunity size estimation
5. Best engagement strategy`,
		orDefault(customer.Name, "Unknown"), orDefault(customer.Company, "N/A"),
		orDefault(customer.Industry, "N/A"), orDefault(customer.Status, "lead"),
		customer.LeadScore, customer.Budget)

	summary := s.complete(ctx, "customer insights", prompt, insightTokens)

	return CustomerInsights{
		Summary:        summary,
		Potential:      extractPotential(summary),
		NextActions:    extractActions(summary),
		EngagementTips: extractEngagementTips(summary),
		GeneratedAt:    s.now().UTC().Format(time.RFC3339),
	}, nil
}

// BusinessInsights analyzes the whole customer base.
func (s *Service) BusinessInsights(ctx context.Context) (BusinessInsights, error) {
	customers, err := s.customers.List(ctx, repository.ListFilters{Limit: businessListLimit})
	if err != nil {
		return BusinessInsights{}, err
	}

	interactions, err := s.customers.RecentInteractions(ctx, businessListLimit)
	if err != nil {
		return BusinessInsights{}, err
	}

	revenue := 0.0
	for _, customer := range customers {
		if customer.Status == "customer" {
			revenue += customer.Budget
		}
	}

	prompt := fmt.Sprintf(`Analyze the following business metrics and provide strategic insights:

Total Customers: %d
Recent Interactions: %d
Monthly Revenue: $%.0f

Top Industries: %s
Average Lead Score: %.2f

Provide:
1. Business health assessment
2. Growth opportunities
3. Risk areas to monitor
4. Recommended focus areas
5. Market trends to consider`,
		len(customers), len(interactions), revenue,
		topIndustries(customers), averageLeadScore(customers))

	summary := s.complete(ctx, "business insights", prompt, insightTokens)

	return BusinessInsights{
		Summary:         summary,
		MetricsAnalysis: analyzeMetrics(customers),
		Recommendations: extractRecommendations(summary),
		GeneratedAt:     s.now().UTC().Format(time.RFC3339),
	}, nil
}

// EmailTemplate drafts a personalized email for the given purpose.
func (s *Service) EmailTemplate(ctx context.Context, customerID uuid.UUID, purpose string) (string, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return "", err
	}
	if purpose == "" {
		purpose = "follow-up"
	}

	prompt := fmt.Sprintf(`Create a professional email template for the following purpose: %s

Customer Details:
Name: %s
Company: %s
Industry: %s

Email should be:
- Professional and personalized
- Clear call-to-action
- Appropriate for %s
- Between 100-150 words`,
		purpose, orDefault(customer.Name, "Valued Customer"),
		customer.Company, customer.Industry, purpose)

	return s.complete(ctx, "email template", prompt, emailTokens), nil
}

// SalesPitch drafts a customized pitch for the customer.
func (s *Service) SalesPitch(ctx context.Context, customerID uuid.UUID, productInfo string) (string, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return "", err
	}
	if productInfo == "" {
		productInfo = "CRM Solution"
	}

	prompt := fmt.Sprintf(`Create a compelling sales pitch for:

Customer: %s
Company: %s
Industry: %s
Budget: $%.0f

Product/Service: %s

The pitch should:
- Address industry-specific pain points
- Highlight relevant benefits
- Include a value proposition
- Be concise and impactful`,
		customer.Name, customer.Company, customer.Industry, customer.Budget, productInfo)

	return s.complete(ctx, "sales pitch", prompt, pitchTokens), nil
}

// Sentiment analyzes the tone of a piece of communication.
func (s *Service) Sentiment(ctx context.Context, text string) SentimentResult {
	prompt := fmt.Sprintf(`Analyze the sentiment of the following text and provide:
1. Overall sentiment (positive/neutral/negative)
2. Confidence score (0-100)
3. Key emotions detected
4. Recommended response tone

Text: %s`, text)

	analysis := s.complete(ctx, "sentiment analysis", prompt, insightTokens)

	return SentimentResult{
		Analysis:  analysis,
		Sentiment: extractSentiment(analysis),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
}

// ChurnRisk assesses how likely a customer is to lapse.
func (s *Service) ChurnRisk(ctx context.Context, customerID uuid.UUID) (ChurnRisk, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return ChurnRisk{}, err
	}

	interactions, err := s.customers.ListInteractions(ctx, customerID)
	if err != nil {
		return ChurnRisk{}, err
	}

	now := s.now()
	recent := 0
	lastInteraction := "No interactions"
	for i, interaction := range interactions {
		if i == 0 {
			lastInteraction = interaction.CreatedAt.UTC().Format(time.RFC3339)
		}
		if now.Sub(interaction.CreatedAt) <= recentInteractionD {
			recent++
		}
	}

	prompt := fmt.Sprintf(`Assess churn risk for the following customer:

Customer Status: %s
Lead Score: %.1f
Last Interaction: %s
Recent Interactions (30 days): %d

Provide:
1. Churn risk level (low/medium/high)
2. Risk factors identified
3. Retention strategies
4. Urgency of action required`,
		customer.Status, customer.LeadScore, lastInteraction, recent)

	assessment := s.complete(ctx, "churn risk", prompt, insightTokens)

	return ChurnRisk{
		RiskAssessment:      assessment,
		RiskLevel:           extractRiskLevel(assessment),
		RetentionStrategies: extractStrategies(assessment),
		AnalyzedAt:          s.now().UTC().Format(time.RFC3339),
	}, nil
}

// complete asks the model and falls back to canned text on any failure.
func (s *Service) complete(ctx context.Context, operation, prompt string, maxTokens int) string {
	text, err := s.ai.Generate(ctx, prompt, maxTokens)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			s.log.AIFallback(operation, err)
		}
		return fallbackResponse(prompt)
	}
	return text
}

func analyzeMetrics(customers []repository.Customer) MetricsAnalysis {
	highValue := 0
	for _, customer := range customers {
		if customer.LeadScore > highValueScore {
			highValue++
		}
	}
	return MetricsAnalysis{
		TotalCustomers:      len(customers),
		HighValueLeads:      highValue,
		ConversionPotential: conversionPotential(customers, highValue),
		MarketCoverage:      topIndustries(customers),
	}
}

func conversionPotential(customers []repository.Customer, highValue int) string {
	if len(customers) == 0 {
		return "Low"
	}
	ratio := float64(highValue) / float64(len(customers))
	switch {
	case ratio > 0.3:
		return "High"
	case ratio > 0.15:
		return "Moderate"
	default:
		return "Low"
	}
}

func topIndustries(customers []repository.Customer) string {
	counts := make(map[string]int)
	for _, customer := range customers {
		industry := customer.Industry
		if industry == "" {
			industry = "Unknown"
		}
		counts[industry]++
	}

	type industryCount struct {
		name  string
		count int
	}
	sorted := make([]industryCount, 0, len(counts))
	for name, count := range counts {
		sorted = append(sorted, industryCount{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})

	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	parts := make([]string, len(sorted))
	for i, entry := range sorted {
		parts[i] = fmt.Sprintf("%s (%d)", entry.name, entry.count)
	}
	return strings.Join(parts, ", ")
}

func averageLeadScore(customers []repository.Customer) float64 {
	if len(customers) == 0 {
		return 0
	}
	total := 0.0
	for _, customer := range customers {
		total += customer.LeadScore
	}
	return math.Round(total/float64(len(customers))*100) / 100
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
