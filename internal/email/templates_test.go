package email

import (
	"strings"
	"testing"
)

func TestRenderCampaignTemplates(t *testing.T) {
	names := []string{
		"welcome",
		"re_engagement",
		"win_back",
		"getting_started",
		"best_practices",
		"success_story",
		"exclusive_offer",
		"schedule_demo",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			content, err := renderCampaignTemplate(name, campaignEmailData{
				baseEmailData: baseEmailData{Title: "Subject", Heading: "Subject"},
				CustomerName:  "Dana Reeve",
			})
			if err != nil {
				t.Fatalf("renderCampaignTemplate(%q) error = %v", name, err)
			}
			if !strings.Contains(content, "Dana Reeve") {
				t.Errorf("rendered %q does not greet the customer", name)
			}
			if !strings.Contains(content, "Subject") {
				t.Errorf("rendered %q does not include the heading", name)
			}
		})
	}
}

func TestRenderCampaignTemplateFallback(t *testing.T) {
	content, err := renderCampaignTemplate("does_not_exist", campaignEmailData{
		baseEmailData: baseEmailData{Title: "Subject", Heading: "Subject"},
	})
	if err != nil {
		t.Fatalf("renderCampaignTemplate() error = %v", err)
	}
	if !strings.Contains(content, "there") {
		t.Errorf("fallback greeting missing: %s", content)
	}
}
