package evaluation

// JobRequirements are the HR-authored criteria a résumé is scored against.
type JobRequirements struct {
	JobID              string          `json:"job_id,omitempty" yaml:"job_id" validate:"omitempty,max=64"`
	Role               string          `json:"role" yaml:"role" validate:"required,max=200"`
	ExperienceRequired ExperienceRange `json:"experience_required" yaml:"experience_required"`
	NoticePeriod       NoticePeriod    `json:"notice_period" yaml:"notice_period"`
	Location           Location        `json:"location" yaml:"location"`
	RequiredSkills     []string        `json:"required_skills" yaml:"required_skills" validate:"dive,required,max=100"`
	PreferredSkills    []string        `json:"preferred_skills" yaml:"preferred_skills" validate:"dive,required,max=100"`
	Qualifications     []string        `json:"qualifications" yaml:"qualifications" validate:"dive,required,max=200"`
	JobDescription     string          `json:"job_description" yaml:"job_description" validate:"max=10000"`
}

// ExperienceRange bounds the years of experience wanted for a role.
type ExperienceRange struct {
	Minimum           float64 `json:"minimum" yaml:"minimum" validate:"gte=0"`
	Maximum           float64 `json:"maximum" yaml:"maximum" validate:"gte=0"`
	PreferredIndustry string  `json:"preferred_industry" yaml:"preferred_industry"`
}

// NoticePeriod holds free-text notice expectations, e.g. "30 days" or "immediate".
type NoticePeriod struct {
	Required  string `json:"required" yaml:"required"`
	Preferred string `json:"preferred" yaml:"preferred"`
}

// Location describes where the role is based.
type Location struct {
	City         string `json:"city,omitempty" yaml:"city"`
	State        string `json:"state,omitempty" yaml:"state"`
	Country      string `json:"country,omitempty" yaml:"country"`
	RemoteOption string `json:"remote_option,omitempty" yaml:"remote_option"`
}

// StructuredResume is the normalized record extracted from a résumé.
type StructuredResume struct {
	FullName             string           `json:"full_name"`
	Contact              Contact          `json:"contact"`
	Skills               []string         `json:"skills"`
	Education            []Education      `json:"education"`
	WorkExperience       []WorkExperience `json:"work_experience"`
	Projects             []Project        `json:"projects"`
	Certifications       []string         `json:"certifications"`
	TotalExperienceYears float64          `json:"total_experience_years"`
	Links                []string         `json:"links,omitempty"`
	NoticePeriod         string           `json:"notice_period,omitempty"`
}

// Contact details; every field may be empty.
type Contact struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Address  string `json:"address,omitempty"`
}

type Education struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       string `json:"year"`
}

type WorkExperience struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Duration string `json:"duration"`
}

type Project struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
}

// ScoreBreakdown is the five-factor evaluation of a résumé. The JSON key names
// are a stable contract for dashboard consumers.
type ScoreBreakdown struct {
	SkillsScore         float64   `json:"skills_score"`
	ExperienceScore     float64   `json:"experience_score"`
	EducationScore      float64   `json:"education_score"`
	NoticePeriodScore   float64   `json:"notice_period_score"`
	OverallProfileScore float64   `json:"overall_profile_score"`
	FinalScore          float64   `json:"final_score"`
	DetailedReasoning   Reasoning `json:"detailed_reasoning"`
}

// Reasoning carries the model's free-text justification per factor.
type Reasoning struct {
	SkillsAnalysis       string `json:"skills_analysis"`
	ExperienceAnalysis   string `json:"experience_analysis"`
	EducationAnalysis    string `json:"education_analysis"`
	NoticePeriodAnalysis string `json:"notice_period_analysis"`
	OverallAnalysis      string `json:"overall_analysis"`
}

// Components returns the five factor scores in rubric order.
func (b ScoreBreakdown) Components() [5]float64 {
	return [5]float64{
		b.SkillsScore,
		b.ExperienceScore,
		b.EducationScore,
		b.NoticePeriodScore,
		b.OverallProfileScore,
	}
}

// Normalize clamps each factor to [0,100] and overwrites FinalScore with the
// rounded mean of the factors.
func (b *ScoreBreakdown) Normalize() {
	b.SkillsScore = clampScore(b.SkillsScore)
	b.ExperienceScore = clampScore(b.ExperienceScore)
	b.EducationScore = clampScore(b.EducationScore)
	b.NoticePeriodScore = clampScore(b.NoticePeriodScore)
	b.OverallProfileScore = clampScore(b.OverallProfileScore)

	var sum float64
	components := b.Components()
	for _, score := range components {
		sum += score
	}
	b.FinalScore = roundHalfUp(sum / float64(len(components)))
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
