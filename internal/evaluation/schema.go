package evaluation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resumeSchemaSource = `{
  "type": "object",
  "definitions": {
    "text": {"type": ["string", "null"]},
    "textList": {"type": ["array", "null"], "items": {"type": ["string", "null"]}},
    "scalar": {"type": ["string", "number", "null"]}
  },
  "properties": {
    "full_name": {"$ref": "#/definitions/text"},
    "contact": {
      "type": ["object", "null"],
      "properties": {
        "phone": {"$ref": "#/definitions/text"},
        "email": {"$ref": "#/definitions/text"},
        "linkedin": {"$ref": "#/definitions/text"},
        "address": {"$ref": "#/definitions/text"}
      }
    },
    "skills": {"$ref": "#/definitions/textList"},
    "education": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "degree": {"$ref": "#/definitions/text"},
          "university": {"$ref": "#/definitions/text"},
          "year": {"$ref": "#/definitions/scalar"}
        }
      }
    },
    "work_experience": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "company": {"$ref": "#/definitions/text"},
          "role": {"$ref": "#/definitions/text"},
          "duration": {"$ref": "#/definitions/scalar"}
        }
      }
    },
    "projects": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "title": {"$ref": "#/definitions/text"},
          "description": {"$ref": "#/definitions/text"},
          "technologies": {"type": ["string", "array", "null"], "items": {"type": "string"}}
        }
      }
    },
    "certifications": {"$ref": "#/definitions/textList"}
  }
}`

const scoreSchemaSource = `{
  "type": "object",
  "required": ["breakdown"],
  "definitions": {
    "score": {"type": "number"},
    "text": {"type": ["string", "null"]}
  },
  "properties": {
    "breakdown": {
      "type": "object",
      "required": ["skills_score", "experience_score", "education_score", "notice_period_score", "overall_profile_score"],
      "properties": {
        "skills_score": {"$ref": "#/definitions/score"},
        "experience_score": {"$ref": "#/definitions/score"},
        "education_score": {"$ref": "#/definitions/score"},
        "notice_period_score": {"$ref": "#/definitions/score"},
        "overall_profile_score": {"$ref": "#/definitions/score"}
      }
    },
    "final_score": {},
    "detailed_reasoning": {
      "type": ["object", "null"],
      "properties": {
        "skills_analysis": {"$ref": "#/definitions/text"},
        "experience_analysis": {"$ref": "#/definitions/text"},
        "education_analysis": {"$ref": "#/definitions/text"},
        "notice_period_analysis": {"$ref": "#/definitions/text"},
        "overall_analysis": {"$ref": "#/definitions/text"}
      }
    }
  }
}`

var (
	resumeSchema = mustCompileSchema("https://hireform.local/schemas/structured-resume.json", resumeSchemaSource)
	scoreSchema  = mustCompileSchema("https://hireform.local/schemas/score-reply.json", scoreSchemaSource)
)

func mustCompileSchema(url, source string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		panic(fmt.Sprintf("load schema %s: %v", url, err))
	}
	return compiler.MustCompile(url)
}

// decodeValidated parses payload, checks it against schema and only then
// decodes it into target.
func decodeValidated(schema *jsonschema.Schema, payload string, target interface{}) (string, error) {
	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.UseNumber()

	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return "invalid json", err
	}

	if err := schema.Validate(document); err != nil {
		return "unexpected shape", err
	}

	if err := json.NewDecoder(bytes.NewReader([]byte(payload))).Decode(target); err != nil {
		return "unexpected shape", err
	}

	return "", nil
}
