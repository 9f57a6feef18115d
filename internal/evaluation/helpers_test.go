package evaluation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

type scriptedModel struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
}

func (m *scriptedModel) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.prompts)
	m.prompts = append(m.prompts, prompt)

	if call < len(m.errs) && m.errs[call] != nil {
		return "", m.errs[call]
	}
	if call < len(m.replies) {
		return m.replies[call], nil
	}
	return "", errors.New("unexpected model call")
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// buildPDF renders a single-page PDF with one Helvetica text line per entry.
func buildPDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 14 TL 72 720 Td")
	for _, line := range lines {
		escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(line)
		fmt.Fprintf(&content, " (%s) Tj T*", escaped)
	}
	content.WriteString(" ET")
	stream := content.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, object := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, object)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return buf.Bytes()
}

const sampleResumeReply = "```json\n" + `{
  "full_name": "Jane Doe",
  "contact": {"phone": "+1 555 0100", "email": "jane@example.com", "linkedin": null, "address": null},
  "skills": ["Go", "PostgreSQL", " "],
  "education": [{"degree": "BSc Computer Science", "university": "State University", "year": 2018}],
  "work_experience": [
    {"company": "Acme", "role": "Backend Engineer", "duration": "2 years 3 months"},
    {"company": "Globex", "role": "Intern", "duration": "1 year"}
  ],
  "projects": [{"title": "Queue", "description": "Job runner", "technologies": ["Go", "Redis"]}],
  "certifications": ["CKA"]
}` + "\n```"

const sampleScoreReply = `Here is the evaluation:
{
  "breakdown": {
    "skills_score": 90,
    "experience_score": 70,
    "education_score": 80,
    "notice_period_score": 100,
    "overall_profile_score": 65
  },
  "final_score": 12,
  "detailed_reasoning": {
    "skills_analysis": "Strong Go",
    "experience_analysis": "Slightly junior",
    "education_analysis": "Relevant degree",
    "notice_period_analysis": "Immediate",
    "overall_analysis": "Good fit"
  }
}`

func sampleRequirements() *JobRequirements {
	return &JobRequirements{
		Role: "Backend Engineer",
		ExperienceRequired: ExperienceRange{
			Minimum:           3,
			Maximum:           6,
			PreferredIndustry: "SaaS",
		},
		NoticePeriod:   NoticePeriod{Required: "30 days", Preferred: "immediate"},
		RequiredSkills: []string{"Go", "PostgreSQL"},
		Qualifications: []string{"BSc Computer Science"},
		JobDescription: "Build APIs",
	}
}
