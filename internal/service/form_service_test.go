package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hireform-api/internal/dto"
	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/repository"
)

func TestFormServiceCreateAssignsIDsAndSanitizes(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewFormService(repository.NewFormRepository(db), newValidator(), zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, 9, dto.FormCreateRequest{
		Title:       "  <b>Backend</b> Engineer ",
		Description: "<script>alert(1)</script>Join us",
		Fields: []dto.FormFieldRequest{
			{Type: "text", Label: "Full name", Required: true},
			{Type: "select", Label: "Notice period", Options: []string{"Immediate", " ", "30 days"}},
			{ID: "cv", Type: "file", Label: "Resume"},
		},
		JobRequirements: &evaluation.JobRequirements{
			Role:               " Backend Engineer ",
			ExperienceRequired: evaluation.ExperienceRange{Minimum: 2, Maximum: 5},
			RequiredSkills:     []string{" Go ", "SQL"},
		},
	})
	require.NoError(t, err)

	require.NotEmpty(t, created.PublicID)
	require.Equal(t, "/form/"+created.PublicID, created.PublicLink)
	require.Equal(t, "Backend Engineer", created.Title)
	require.Equal(t, "Join us", created.Description)
	require.True(t, created.ScoringEnabled)
	require.Equal(t, "Backend Engineer", created.JobRequirements.Role)
	require.Equal(t, []string{"Go", "SQL"}, created.JobRequirements.RequiredSkills)

	require.Len(t, created.Fields, 3)
	require.Equal(t, "1", created.Fields[0].ID)
	require.Equal(t, "2", created.Fields[1].ID)
	require.Equal(t, []string{"Immediate", "30 days"}, created.Fields[1].Options)
	require.Equal(t, "cv", created.Fields[2].ID)

	public, err := svc.GetPublic(ctx, created.PublicID)
	require.NoError(t, err)
	require.Equal(t, created.Title, public.Title)
	require.Len(t, public.Fields, 3)

	listed, err := svc.List(ctx, 9)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestFormServiceRejectsInvalidDefinitions(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewFormService(repository.NewFormRepository(db), newValidator(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, dto.FormCreateRequest{Title: "ok title"})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	_, err = svc.Create(ctx, 1, dto.FormCreateRequest{
		Title:  "Duplicate ids",
		Fields: []dto.FormFieldRequest{{ID: "a", Type: "text", Label: "A"}, {ID: "a", Type: "text", Label: "B"}},
	})
	require.ErrorIs(t, err, ErrInvalidForm)

	_, err = svc.Create(ctx, 1, dto.FormCreateRequest{
		Title:  "Empty select",
		Fields: []dto.FormFieldRequest{{Type: "radio", Label: "Pick one"}},
	})
	require.ErrorIs(t, err, ErrInvalidForm)

	_, err = svc.Create(ctx, 1, dto.FormCreateRequest{
		Title:  "Inverted range",
		Fields: []dto.FormFieldRequest{{Type: "text", Label: "Name"}},
		JobRequirements: &evaluation.JobRequirements{
			Role:               "Analyst",
			ExperienceRequired: evaluation.ExperienceRange{Minimum: 6, Maximum: 3},
		},
	})
	require.ErrorIs(t, err, ErrInvalidForm)

	_, err = svc.Create(ctx, 1, dto.FormCreateRequest{
		Title:           "Missing role",
		Fields:          []dto.FormFieldRequest{{Type: "text", Label: "Name"}},
		JobRequirements: &evaluation.JobRequirements{},
	})
	require.ErrorAs(t, err, &validationErrs)
}

func TestFormServiceOwnership(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewFormService(repository.NewFormRepository(db), newValidator(), zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, dto.FormCreateRequest{
		Title:  "Designer",
		Fields: []dto.FormFieldRequest{{Type: "text", Label: "Name"}},
	})
	require.NoError(t, err)
	require.False(t, created.ScoringEnabled)

	_, err = svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, created.ID)
	require.ErrorIs(t, err, ErrFormForbidden)

	_, err = svc.Get(ctx, 1, created.ID+50)
	require.ErrorIs(t, err, ErrFormNotFound)

	_, err = svc.GetPublic(ctx, "unknown")
	require.ErrorIs(t, err, ErrFormNotFound)
}
