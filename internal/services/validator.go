package services

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const extractionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["Personal Information", "Education", "Work Experience", "Skills", "Certifications"],
  "properties": {
    "Personal Information": {
      "type": "object",
      "required": ["Name", "Email", "Phone"],
      "properties": {
        "Name": {"type": "string"},
        "Email": {"type": "string"},
        "Phone": {"type": ["string", "number"]}
      }
    },
    "Education": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["Degree", "University"],
        "properties": {
          "Degree": {"type": "string"},
          "University": {"type": "string"},
          "Field": {"type": "string"},
          "Start Year": {"type": ["string", "number"]},
          "End Year": {"type": ["string", "number", "null"]}
        }
      }
    },
    "Work Experience": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["Company", "Job Title"],
        "properties": {
          "Company": {"type": "string"},
          "Job Title": {"type": "string"},
          "Start Date": {"type": ["string", "number"]},
          "End Date": {"type": ["string", "number", "null"]},
          "Responsibilities": {
            "type": ["array", "string"],
            "items": {"type": "string"}
          }
        }
      }
    },
    "Skills": {
      "type": "array",
      "items": {"type": "string"}
    },
    "Certifications": {
      "type": "array",
      "items": {
        "anyOf": [
          {"type": "string"},
          {
            "type": "object",
            "required": ["Name"],
            "properties": {
              "Name": {"type": "string"},
              "Issued By": {"type": ["string", "null"]},
              "Year": {"type": ["string", "number", "null"]}
            }
          }
        ]
      }
    }
  }
}`

// ExtractionValidator checks a cleaned extraction payload against the shape
// the extraction prompt requests.
type ExtractionValidator struct {
	schema *gojsonschema.Schema
}

func NewExtractionValidator() (*ExtractionValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(extractionSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction schema: %w", err)
	}

	return &ExtractionValidator{schema: schema}, nil
}

// Validate returns one message per schema violation. An empty result means
// the payload is complete.
func (v *ExtractionValidator) Validate(payload map[string]any) []string {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return []string{fmt.Sprintf("schema validation failed: %v", err)}
	}

	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		issues = append(issues, e.String())
	}
	return issues
}
