package chatbot

import "testing"

func TestExtractCustomerDataFullMessage(t *testing.T) {
	message := "Add customer called John Smith from Globex Corporation, email john.smith@globex.test, phone 212-555-0134"
	extracted := extractCustomerData(message)

	if extracted["name"] != "John Smith" {
		t.Errorf("name = %q, want John Smith", extracted["name"])
	}
	if extracted["company"] != "Globex Corporation" {
		t.Errorf("company = %q, want Globex Corporation", extracted["company"])
	}
	if extracted["email"] != "john.smith@globex.test" {
		t.Errorf("email = %q", extracted["email"])
	}
	if extracted["phone"] == "" {
		t.Error("phone not extracted")
	}
}

func TestExtractCustomerDataNamePatterns(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"create a customer named Alice Brown", "Alice Brown"},
		{"new customer for Bob Gray please", "Bob Gray"},
		{"add Carol White to the system", "Carol White"},
	}
	for _, tc := range cases {
		extracted := extractCustomerData(tc.message)
		if extracted["name"] != tc.want {
			t.Errorf("extractCustomerData(%q) name = %q, want %q", tc.message, extracted["name"], tc.want)
		}
	}
}

func TestExtractCustomerDataCompanyCleaning(t *testing.T) {
	// Trailing whitespace inside the capture is trimmed.
	extracted := extractCustomerData("she is from Initech , reach out soon")
	if extracted["company"] != "Initech" {
		t.Errorf("company = %q, want Initech", extracted["company"])
	}

	// Markup brackets reject the candidate entirely.
	extracted = extractCustomerData("he is from Initech <script>")
	if _, ok := extracted["company"]; ok {
		t.Errorf("bracketed company accepted: %q", extracted["company"])
	}
}

func TestExtractCustomerDataEmptyMessage(t *testing.T) {
	extracted := extractCustomerData("nothing useful here")
	if len(extracted) != 0 {
		t.Errorf("extracted = %v, want empty", extracted)
	}
}

func TestCleanCompanyRules(t *testing.T) {
	if got, ok := cleanCompany("  Acme Inc, "); !ok {
		t.Error("Acme Inc rejected")
	} else if got != "Acme Inc" {
		t.Errorf("got %q", got)
	}

	long := make([]byte, 60)
	for i := range long {
		long[i] = 'A'
	}
	if _, ok := cleanCompany(string(long)); ok {
		t.Error("overlong company accepted")
	}
	if _, ok := cleanCompany("Braces {inc}"); ok {
		t.Error("braced company accepted")
	}
	if _, ok := cleanCompany("  ..  "); ok {
		t.Error("punctuation-only company accepted")
	}
}
