package utils

import "testing"

type extraction struct {
	Budget       *float64 `json:"budget,omitempty"`
	City         *string  `json:"city,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
}

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    bool
		wantBudget float64
		wantCity   string
	}{
		{
			name:       "pure JSON",
			input:      `{"budget": 3000000, "city": "monterrey"}`,
			wantBudget: 3000000,
			wantCity:   "monterrey",
		},
		{
			name:       "markdown json block",
			input:      "```json\n{\"budget\": 3000000, \"city\": \"monterrey\"}\n```",
			wantBudget: 3000000,
			wantCity:   "monterrey",
		},
		{
			name:       "bare markdown block",
			input:      "```\n{\"budget\": 3000000, \"city\": \"monterrey\"}\n```",
			wantBudget: 3000000,
			wantCity:   "monterrey",
		},
		{
			name:       "JSON with surrounding text",
			input:      `Here is the extraction: {"budget": 3000000, "city": "monterrey"} as requested.`,
			wantBudget: 3000000,
			wantCity:   "monterrey",
		},
		{
			name:       "trailing comma",
			input:      `{"budget": 3000000, "city": "monterrey",}`,
			wantBudget: 3000000,
			wantCity:   "monterrey",
		},
		{
			name:       "unquoted keys",
			input:      `{budget: 3000000, city: "monterrey"}`,
			wantBudget: 3000000,
			wantCity:   "monterrey",
		},
		{
			name:       "braces inside string values",
			input:      `{"city": "monterrey {centro}", "budget": 3000000}`,
			wantBudget: 3000000,
			wantCity:   "monterrey {centro}",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I could not extract anything useful.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result extraction
			err := ParseAIJSON(tt.input, &result)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if result.Budget == nil || *result.Budget != tt.wantBudget {
				t.Errorf("Expected budget %.0f, got %v", tt.wantBudget, result.Budget)
			}
			if result.City == nil || *result.City != tt.wantCity {
				t.Errorf("Expected city %q, got %v", tt.wantCity, result.City)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	if got := TruncateString("a longer string", 8); got != "a longer..." {
		t.Errorf("Expected truncated string with ellipsis, got %q", got)
	}
}
