package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

type campaignEmailData struct {
	baseEmailData
	CustomerName string
}

// renderCampaignTemplate renders the named campaign template inside the
// base layout. Unknown template names fall back to the generic campaign
// body so a customized nurture file cannot break delivery.
func renderCampaignTemplate(name string, data campaignEmailData) (string, error) {
	file := "templates/" + name + ".html"
	if _, err := templateFS.Open(file); err != nil {
		file = "templates/campaign.html"
	}

	tmpl, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", file)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
