package service

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed nurture.yaml
var defaultCampaignYAML []byte

// NurtureEmail is one step of the drip campaign, sent the given number
// of days after the campaign starts.
type NurtureEmail struct {
	Day      int    `yaml:"day"`
	Subject  string `yaml:"subject"`
	Template string `yaml:"template"`
}

type campaignFile struct {
	Emails []NurtureEmail `yaml:"emails"`
}

// LoadNurtureCampaign loads the drip campaign from the given YAML file,
// falling back to the built-in default when path is empty.
func LoadNurtureCampaign(path string) ([]NurtureEmail, error) {
	raw := defaultCampaignYAML
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read nurture campaign: %w", err)
		}
		raw = data
	}

	var file campaignFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse nurture campaign: %w", err)
	}
	if len(file.Emails) == 0 {
		return nil, fmt.Errorf("nurture campaign has no emails")
	}
	for _, email := range file.Emails {
		if email.Day < 0 || email.Subject == "" {
			return nil, fmt.Errorf("nurture campaign email needs a subject and a non-negative day")
		}
	}
	return file.Emails, nil
}
