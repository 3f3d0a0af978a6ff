// internal/capability/schema.go
package capability

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"prepline/internal/models"
)

// profileSchema is the contract every tier's output must satisfy. Trusting a
// remote reasoning service to return well-formed JSON is not enough; the shape
// is checked here so a malformed profile fails the tier instead of leaking
// downstream.
const profileSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["learnerId", "targetCode", "experience", "assessments"],
	"properties": {
		"learnerId": {"type": "string", "minLength": 1},
		"targetCode": {"type": "string", "minLength": 1},
		"experience": {"type": "string", "enum": ["novice", "intermediate", "advanced", "expert"]},
		"style": {"type": "string"},
		"assessments": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["categoryCode", "confidence", "knowledge"],
				"properties": {
					"categoryCode": {"type": "string", "minLength": 1},
					"confidence": {"type": "number", "minimum": 0, "maximum": 1},
					"knowledge": {"type": "string", "enum": ["none", "basic", "working", "deep"]},
					"skip": {"type": "boolean"},
					"notes": {"type": "string"}
				}
			}
		},
		"riskCategories": {"type": "array", "items": {"type": "string"}},
		"summary": {"type": "string"}
	}
}`

var profileSchemaLoader = gojsonschema.NewStringLoader(profileSchema)

func validateProfileSchema(profile models.Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	result, err := gojsonschema.Validate(profileSchemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		issues = append(issues, e.String())
	}
	return fmt.Errorf("profile failed schema: %s", strings.Join(issues, "; "))
}
