package proxy

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func stringType() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func describedString(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

// optionalString admits null because some models emit null for absent values
func optionalString(description string) map[string]interface{} {
	return map[string]interface{}{"type": []string{"string", "null"}, "description": description}
}

func stringArray(description string) map[string]interface{} {
	schema := map[string]interface{}{"type": "array", "items": stringType()}
	if description != "" {
		schema["description"] = description
	}
	return schema
}

// resumeSchema is the contract of parseResume
func resumeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"fullName": describedString("Full name of the person."),
			"email":    describedString("Email address."),
			"phone":    optionalString("Phone number."),
			"address":  optionalString("Full mailing address, including street, city, state, and ZIP code."),
			"summary":  describedString("A brief professional summary or objective."),
			"skills":   stringArray("List of technical and soft skills."),
			"experience": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"jobTitle":         stringType(),
						"company":          stringType(),
						"location":         stringType(),
						"dates":            describedString("e.g., 'May 2020 - Present'"),
						"responsibilities": stringArray(""),
					},
					"required": []string{"jobTitle", "company", "dates", "responsibilities"},
				},
			},
			"education": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"degree":         stringType(),
						"institution":    stringType(),
						"location":       stringType(),
						"graduationYear": stringType(),
					},
					"required": []string{"degree", "institution", "graduationYear"},
				},
			},
		},
		"required": []string{"fullName", "email", "skills", "experience", "education", "summary"},
	}
}

func jobSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"jobTitle":    stringType(),
			"company":     stringType(),
			"location":    stringType(),
			"description": describedString("A brief 2-3 sentence description."),
			"skills":      stringArray(""),
		},
		"required": []string{"jobTitle", "company", "location", "description", "skills"},
	}
}

// jobListSchema is the contract of findMatchingJobs and findSimilarJobs.
// The prompt asks for three jobs but the length is not constrained.
func jobListSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": jobSchema(),
	}
}

func jobAnalysisSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"suggestedSkills":   stringArray(""),
			"suggestedCategory": stringType(),
			"clarityFeedback":   stringType(),
		},
		"required": []string{"suggestedSkills", "suggestedCategory", "clarityFeedback"},
	}
}

// contract pairs a schema document with its compiled validator
type contract struct {
	document map[string]interface{}
	compiled *gojsonschema.Schema
}

func newContract(document map[string]interface{}) (*contract, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}
	return &contract{document: document, compiled: compiled}, nil
}

// check verifies that raw is JSON conforming to the schema
func (c *contract) check(raw []byte) error {
	result, err := c.compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("model returned malformed JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("model response does not match schema: %s", strings.Join(msgs, "; "))
}
