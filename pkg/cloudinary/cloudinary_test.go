package cloudinary

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestUploadTarget(t *testing.T) {
	cases := []struct {
		name         string
		base         string
		key          string
		contentType  string
		folder       string
		publicID     string
		resourceType string
	}{
		{"pdf keeps extension", "hireform", "resumes/1700-cv.pdf", "application/pdf", "hireform/resumes", "1700-cv.pdf", "raw"},
		{"other types use auto", "hireform", "resumes/1700-photo.png", "image/png", "hireform/resumes", "1700-photo", "auto"},
		{"no base folder", "", "resumes/1-a.pdf", "Application/PDF", "resumes", "1-a.pdf", "raw"},
		{"bare key", "", "/file.docx/", "application/octet-stream", "", "file", "auto"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			folder, publicID, resourceType := uploadTarget(tc.base, tc.key, tc.contentType)
			require.Equal(t, tc.folder, folder)
			require.Equal(t, tc.publicID, publicID)
			require.Equal(t, tc.resourceType, resourceType)
		})
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.Nop())
	require.Error(t, err)

	svc, err := New(Config{CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "/hireform/"}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "hireform", svc.folder)
}
