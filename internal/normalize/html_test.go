package normalize

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text untouched", "Brass cased, boxer primed", "Brass cased, boxer primed"},
		{"tags removed", "<p>Premium <b>defense</b> load</p>", "Premium defense load"},
		{"entities decoded", "Smith &amp; Wesson", "Smith & Wesson"},
		{"blocks separated", "<li>Reloadable</li><li>Brass</li>", "Reloadable Brass"},
		{"breaks collapse", "Line one<br/>Line two", "Line one Line two"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripHTML(tt.input)
			if result != tt.expected {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text trimmed", "  Brass cased  ", "Brass cased"},
		{"emphasis becomes markdown", "<p>Premium <b>defense</b> load</p>", "Premium **defense** load"},
		{"list structure survives", "<ul><li>Reloadable</li><li>Brass</li></ul>", "- Reloadable\n- Brass"},
		{"entities decoded", "Smith &amp; Wesson", "Smith & Wesson"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Description(tt.input)
			if result != tt.expected {
				t.Errorf("Description(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestContainsHTML(t *testing.T) {
	if ContainsHTML("no markup here") {
		t.Error("ContainsHTML reported markup in plain text")
	}
	if !ContainsHTML("<p>markup</p>") {
		t.Error("ContainsHTML missed a paragraph tag")
	}
}
