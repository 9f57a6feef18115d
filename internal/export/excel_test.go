package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/models"
	"github.com/noah-isme/hireform-api/internal/ranking"
)

func TestRankedWorkbookWritesRowsInGivenOrder(t *testing.T) {
	url := "https://files.example.com/resumes/ana.pdf"
	submittedAt := time.Date(2026, 6, 3, 14, 5, 0, 0, time.UTC)
	form := models.Form{
		ID:    3,
		Title: "Backend Engineer",
		Fields: []models.FormField{
			{ID: "1", Type: models.FieldTypeText, Label: "Full name"},
			{ID: "2", Type: models.FieldTypeText, Label: "Notice period"},
		},
		JobRequirements: &evaluation.JobRequirements{
			Role:               "Backend Engineer",
			ExperienceRequired: evaluation.ExperienceRange{Minimum: 2, Maximum: 5},
			RequiredSkills:     []string{"Go", "SQL"},
		},
	}
	ranked := []models.Submission{
		{
			ID:           10,
			Responses:    []models.Response{{FieldID: "1", Value: "Ana Putri"}, {FieldID: "2", Value: "30 days"}},
			ResumeURL:    &url,
			ResumeStatus: models.ResumeStatusStored,
			AIEvaluation: &evaluation.ScoreBreakdown{
				SkillsScore:         90,
				ExperienceScore:     80,
				EducationScore:      70,
				NoticePeriodScore:   85,
				OverallProfileScore: 80,
				FinalScore:          81,
			},
			ParsedResume: &evaluation.StructuredResume{FullName: "Ana P."},
			SubmittedAt:  submittedAt,
		},
		{
			ID:           11,
			Responses:    []models.Response{{FieldID: "1", Value: "Budi"}},
			ResumeStatus: models.ResumeStatusUploadFailed,
			SubmittedAt:  submittedAt.Add(time.Hour),
		},
	}

	data, err := RankedWorkbook(form, ranking.FinalScore, ranked)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{RankingSheet, RequirementsSheet}, f.GetSheetList())

	rows, err := f.GetRows(RankingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, append(append([]string{}, scoreHeaders...), "Full name", "Notice period"), rows[0])

	require.Equal(t, "1", rows[1][0])
	require.Equal(t, "Ana P.", rows[1][1])
	require.Equal(t, "81", rows[1][2])
	require.Equal(t, "90", rows[1][3])
	require.Equal(t, "Open resume", rows[1][8])
	require.Equal(t, "2026-06-03 14:05:00", rows[1][9])
	require.Equal(t, "30 days", rows[1][11])

	require.Equal(t, "2", rows[2][0])
	require.Equal(t, "Budi", rows[2][1])
	require.Equal(t, "", rows[2][2])
	require.Equal(t, "Upload failed", rows[2][8])

	linked, target, err := f.GetCellHyperLink(RankingSheet, "I2")
	require.NoError(t, err)
	require.True(t, linked)
	require.Equal(t, url, target)

	role, err := f.GetCellValue(RequirementsSheet, "B3")
	require.NoError(t, err)
	require.Equal(t, "Backend Engineer", role)

	dimension, err := f.GetCellValue(RequirementsSheet, "B2")
	require.NoError(t, err)
	require.Equal(t, "finalScore", dimension)
}

func TestRankedWorkbookWithoutRequirements(t *testing.T) {
	form := models.Form{ID: 4, Title: "General"}

	data, err := RankedWorkbook(form, ranking.SubmissionDate, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(RankingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	note, err := f.GetCellValue(RequirementsSheet, "B3")
	require.NoError(t, err)
	require.Equal(t, "No job requirements configured", note)
	require.Equal(t, "form-4-submissionDate.xlsx", FileName(form, ranking.SubmissionDate))
}
