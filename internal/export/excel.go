// Package export renders ranked submissions as spreadsheets for offline review.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/hireform-api/internal/models"
	"github.com/noah-isme/hireform-api/internal/ranking"
)

const (
	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	RankingSheet      = "Ranking"
	RequirementsSheet = "Requirements"
)

var scoreHeaders = []string{
	"Rank",
	"Candidate",
	"Final Score",
	"Skills",
	"Experience",
	"Education",
	"Notice Period",
	"Overall Profile",
	"Resume",
	"Submitted At",
}

// FileName returns the download name for a form's ranking workbook.
func FileName(form models.Form, dimension ranking.Dimension) string {
	return fmt.Sprintf("form-%d-%s.xlsx", form.ID, dimension)
}

// RankedWorkbook writes ranked, which must already be in ranking order, to an
// XLSX document. Every form field gets its own column after the scores.
func RankedWorkbook(form models.Form, dimension ranking.Dimension, ranked []models.Submission) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RankingSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(RequirementsSheet); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("create styles: %w", err)
	}

	if err := writeRanking(f, styles, form, ranked); err != nil {
		return nil, fmt.Errorf("write ranking sheet: %w", err)
	}
	if err := writeRequirements(f, styles, form, dimension); err != nil {
		return nil, fmt.Errorf("write requirements sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	header int
	label  int
	bands  [4]int
	link   int
}

var bandColors = [4]string{"C6EFCE", "FFEB9C", "FFC7CE", "FF9999"}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s styles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return styles{}, err
	}

	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styles{}, err
	}

	for i, color := range bandColors {
		s.bands[i], err = f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return styles{}, err
		}
	}

	s.link, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: "0563C1", Underline: "single"},
		Border: border,
	})
	if err != nil {
		return styles{}, err
	}

	return s, nil
}

// band picks the row colour for a final score; unevaluated rows use the last band.
func (s styles) band(submission models.Submission) int {
	if submission.AIEvaluation == nil {
		return s.bands[3]
	}
	switch score := submission.AIEvaluation.FinalScore; {
	case score >= 90:
		return s.bands[0]
	case score >= 70:
		return s.bands[1]
	case score >= 50:
		return s.bands[2]
	default:
		return s.bands[3]
	}
}

func writeRanking(f *excelize.File, s styles, form models.Form, ranked []models.Submission) error {
	headers := append([]string{}, scoreHeaders...)
	for _, field := range form.Fields {
		headers = append(headers, field.Label)
	}

	if err := f.SetSheetRow(RankingSheet, "A1", &headers); err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(RankingSheet, "A1", lastHeader, s.header); err != nil {
		return err
	}
	if err := f.SetPanes(RankingSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	for i, submission := range ranked {
		row := i + 2
		values := []interface{}{i + 1, candidateName(submission, form)}
		if evaluation := submission.AIEvaluation; evaluation != nil {
			values = append(values,
				evaluation.FinalScore,
				evaluation.SkillsScore,
				evaluation.ExperienceScore,
				evaluation.EducationScore,
				evaluation.NoticePeriodScore,
				evaluation.OverallProfileScore,
			)
		} else {
			values = append(values, "", "", "", "", "", "")
		}
		values = append(values, "", submission.SubmittedAt.UTC().Format("2006-01-02 15:04:05"))
		for _, field := range form.Fields {
			value, _ := submission.ResponseValue(field.ID)
			values = append(values, value)
		}

		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(len(values), row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RankingSheet, start, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(RankingSheet, start, end, s.band(submission)); err != nil {
			return err
		}

		resumeCell, err := excelize.CoordinatesToCellName(9, row)
		if err != nil {
			return err
		}
		if err := writeResumeCell(f, s, resumeCell, submission); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(RankingSheet, "A", "A", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(RankingSheet, "B", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(RankingSheet, "C", "J", 16)
}

func writeResumeCell(f *excelize.File, s styles, cell string, submission models.Submission) error {
	switch submission.ResumeStatus {
	case models.ResumeStatusStored:
		if submission.ResumeURL == nil {
			return nil
		}
		if err := f.SetCellValue(RankingSheet, cell, "Open resume"); err != nil {
			return err
		}
		if err := f.SetCellHyperLink(RankingSheet, cell, *submission.ResumeURL, "External"); err != nil {
			return err
		}
		return f.SetCellStyle(RankingSheet, cell, cell, s.link)
	case models.ResumeStatusUploadFailed:
		return f.SetCellValue(RankingSheet, cell, "Upload failed")
	default:
		return nil
	}
}

func writeRequirements(f *excelize.File, s styles, form models.Form, dimension ranking.Dimension) error {
	rows := [][2]string{
		{"Form", form.Title},
		{"Ranked by", string(dimension)},
	}

	if requirements := form.JobRequirements; requirements != nil {
		rows = append(rows,
			[2]string{"Role", requirements.Role},
			[2]string{"Experience", fmt.Sprintf("%g - %g years", requirements.ExperienceRequired.Minimum, requirements.ExperienceRequired.Maximum)},
			[2]string{"Preferred industry", requirements.ExperienceRequired.PreferredIndustry},
			[2]string{"Required skills", strings.Join(requirements.RequiredSkills, ", ")},
			[2]string{"Preferred skills", strings.Join(requirements.PreferredSkills, ", ")},
			[2]string{"Qualifications", strings.Join(requirements.Qualifications, ", ")},
			[2]string{"Notice period", requirements.NoticePeriod.Required},
		)
	} else {
		rows = append(rows, [2]string{"Scoring", "No job requirements configured"})
	}

	for i, pair := range rows {
		row := i + 1
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(RequirementsSheet, label, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(RequirementsSheet, label, label, s.label); err != nil {
			return err
		}
		if err := f.SetCellValue(RequirementsSheet, fmt.Sprintf("B%d", row), pair[1]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(RequirementsSheet, "A", "A", 22); err != nil {
		return err
	}
	return f.SetColWidth(RequirementsSheet, "B", "B", 60)
}

// candidateName prefers the parsed résumé name, then a response to a field labelled "name".
func candidateName(submission models.Submission, form models.Form) string {
	if submission.ParsedResume != nil && submission.ParsedResume.FullName != "" {
		return submission.ParsedResume.FullName
	}
	for _, field := range form.Fields {
		if strings.Contains(strings.ToLower(field.Label), "name") {
			if value, ok := submission.ResponseValue(field.ID); ok && value != "" {
				return value
			}
		}
	}
	return fmt.Sprintf("Submission #%d", submission.ID)
}
