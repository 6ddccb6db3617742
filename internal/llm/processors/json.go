package processors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a surrounding ```json ... ``` or ``` ... ``` block, if any
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "```json"):
		text = strings.TrimPrefix(text, "```json")
	case strings.HasPrefix(text, "```"):
		text = strings.TrimPrefix(text, "```")
	default:
		return text
	}

	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// SchemaInstruction renders the JSON output contract appended to structured prompts
func SchemaInstruction(schema map[string]interface{}) (string, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render response schema: %w", err)
	}

	return fmt.Sprintf(`

Respond with ONLY valid JSON, no additional text or explanation, conforming to this JSON schema:
%s`, data), nil
}
