package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseAIJSON extracts and parses JSON from model output that may contain:
// - Pure JSON
// - JSON wrapped in markdown code blocks (```json ... ```)
// - JSON with surrounding text
// - Trailing commas or unquoted keys
func ParseAIJSON(input string, target interface{}) error {
	if input == "" {
		return fmt.Errorf("empty input")
	}

	// Try direct parsing first (most common case)
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	// Try to extract JSON from markdown code blocks
	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	// Try to find a JSON object in surrounding text
	if extracted := extractJSONObject(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	// Try to clean common formatting issues
	if cleaned := cleanJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", TruncateString(input, 100))
}

// extractFromMarkdown extracts JSON from markdown code blocks
func extractFromMarkdown(input string) string {
	re1 := regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	if matches := re1.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	re2 := regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	if matches := re2.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") {
			return content
		}
	}

	return ""
}

// extractJSONObject finds the first balanced JSON object in the text,
// string-literal aware.
func extractJSONObject(input string) string {
	depth := 0
	inString := false
	escape := false
	start := -1

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start >= 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanJSON fixes common model formatting mistakes
func cleanJSON(input string) string {
	s := strings.TrimSpace(input)

	// Remove BOM if present
	s = strings.TrimPrefix(s, "\uFEFF")

	// Remove trailing commas before closing braces/brackets
	s = regexp.MustCompile(`,\s*([}\]])`).ReplaceAllString(s, "$1")

	// Quote bare keys: {budget: 3000000} -> {"budget": 3000000}
	s = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`).ReplaceAllString(s, `$1"$2"$3`)

	// Remove control characters
	s = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`).ReplaceAllString(s, "")

	return s
}

// TruncateString truncates a string to maxLen characters
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
