package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/pkg/ai"
)

const structurePromptTemplate = `Extract the candidate information from the résumé text below.
Return only a JSON object with exactly these keys:
{
  "full_name": string,
  "contact": {"phone": string, "email": string, "linkedin": string, "address": string},
  "skills": [string],
  "education": [{"degree": string, "university": string, "year": string}],
  "work_experience": [{"company": string, "role": string, "duration": string}],
  "projects": [{"title": string, "description": string, "technologies": string}],
  "certifications": [string]
}
Use null for anything the résumé does not state. Write each duration the way the
résumé states it, for example "2 years 3 months".

Résumé text:
%s`

// Structurer turns extracted résumé text into a StructuredResume via a language model.
type Structurer struct {
	model  ai.Completer
	logger zerolog.Logger
}

// NewStructurer constructs a structurer backed by model.
func NewStructurer(model ai.Completer, logger zerolog.Logger) *Structurer {
	return &Structurer{
		model:  model,
		logger: logger.With().Str("component", "resume_structurer").Logger(),
	}
}

// Structure asks the model for structured candidate data, validates the reply
// and derives TotalExperienceYears and Links locally.
func (s *Structurer) Structure(ctx context.Context, text string) (StructuredResume, error) {
	reply, err := s.model.Complete(ctx, fmt.Sprintf(structurePromptTemplate, text))
	if err != nil {
		return StructuredResume{}, fmt.Errorf("structure resume: %w", err)
	}

	resume, err := ParseStructuredResume(reply)
	if err != nil {
		s.logger.Debug().Err(err).Int("reply_chars", len(reply)).Msg("structuring reply rejected")
		return StructuredResume{}, err
	}

	resume.Links = ExtractLinks(text)
	return resume, nil
}

// ParseStructuredResume strips fences from a model reply, validates it and
// builds the typed record. Absent optional fields default to zero values.
func ParseStructuredResume(reply string) (StructuredResume, error) {
	var raw rawResume
	if reason, err := decodeValidated(resumeSchema, StripFences(reply), &raw); err != nil {
		return StructuredResume{}, &StructuringError{Reason: reason, Err: err}
	}

	resume := StructuredResume{
		FullName: string(raw.FullName),
		Skills:   nonEmpty(raw.Skills),
		Contact: Contact{
			Phone:    string(raw.Contact.Phone),
			Email:    string(raw.Contact.Email),
			LinkedIn: string(raw.Contact.LinkedIn),
			Address:  string(raw.Contact.Address),
		},
		Certifications: nonEmpty(raw.Certifications),
		Education:      make([]Education, 0, len(raw.Education)),
		WorkExperience: make([]WorkExperience, 0, len(raw.WorkExperience)),
		Projects:       make([]Project, 0, len(raw.Projects)),
	}

	for _, item := range raw.Education {
		resume.Education = append(resume.Education, Education{
			Degree:     string(item.Degree),
			University: string(item.University),
			Year:       string(item.Year),
		})
	}
	for _, item := range raw.WorkExperience {
		resume.WorkExperience = append(resume.WorkExperience, WorkExperience{
			Company:  string(item.Company),
			Role:     string(item.Role),
			Duration: string(item.Duration),
		})
	}
	for _, item := range raw.Projects {
		resume.Projects = append(resume.Projects, Project{
			Title:        string(item.Title),
			Description:  string(item.Description),
			Technologies: string(item.Technologies),
		})
	}

	resume.TotalExperienceYears = TotalExperienceYears(resume.WorkExperience)
	return resume, nil
}

type rawResume struct {
	FullName flexString `json:"full_name"`
	Contact  struct {
		Phone    flexString `json:"phone"`
		Email    flexString `json:"email"`
		LinkedIn flexString `json:"linkedin"`
		Address  flexString `json:"address"`
	} `json:"contact"`
	Skills    []string `json:"skills"`
	Education []struct {
		Degree     flexString `json:"degree"`
		University flexString `json:"university"`
		Year       flexString `json:"year"`
	} `json:"education"`
	WorkExperience []struct {
		Company  flexString `json:"company"`
		Role     flexString `json:"role"`
		Duration flexString `json:"duration"`
	} `json:"work_experience"`
	Projects []struct {
		Title        flexString `json:"title"`
		Description  flexString `json:"description"`
		Technologies flexString `json:"technologies"`
	} `json:"projects"`
	Certifications []string `json:"certifications"`
}

// flexString accepts a string, number, null or list of strings. Lists are
// joined with ", ".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(value))
	case len(data) > 0 && data[0] == '[':
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*f = flexString(strings.Join(nonEmpty(values), ", "))
	default:
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return err
		}
		*f = flexString(number.String())
	}
	return nil
}

func nonEmpty(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
