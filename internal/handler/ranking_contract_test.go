package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hireform-api/internal/evaluation"
)

func TestRankedSubmissionsContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("testdata", "ranked_submissions.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	env := setupApp(t)
	form := createForm(t, env, 3, true)
	submitPath := "/api/v1/public/forms/" + form.PublicID + "/submissions"

	env.evaluator.outcome = evaluation.Outcome{
		State: evaluation.StateDone,
		Evaluation: &evaluation.ScoreBreakdown{
			SkillsScore:         70,
			ExperienceScore:     60,
			EducationScore:      80,
			NoticePeriodScore:   50,
			OverallProfileScore: 65,
			FinalScore:          65,
			DetailedReasoning:   evaluation.Reasoning{SkillsAnalysis: "Strong Go background"},
		},
	}
	resume := &resumeFile{name: "cv.pdf", contentType: "application/pdf", data: samplePDF}
	status, _ := env.do(t, multipartRequest(t, submitPath, `[{"field_id":"1","value":"Ada"}]`, resume))
	require.Equal(t, http.StatusCreated, status)

	status, _ = env.do(t, multipartRequest(t, submitPath, `[{"field_id":"1","value":"Grace"}]`, nil))
	require.Equal(t, http.StatusCreated, status)

	resp, err := env.app.Test(asOwner(httptest.NewRequest(http.MethodGet, formPath(form, "/submissions"), nil), 3), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
