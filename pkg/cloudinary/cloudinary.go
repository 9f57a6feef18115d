package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service stores résumé documents on Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Put uploads data under key and returns its secure URL.
func (s *Service) Put(ctx context.Context, data []byte, contentType, key string) (string, error) {
	folder, publicID, resourceType := uploadTarget(s.folder, key, contentType)

	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		ResourceType:   resourceType,
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	}

	result, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload asset: %s", result.Error.Message)
	}

	s.logger.Info().
		Str("public_id", result.PublicID).
		Str("resource_type", resourceType).
		Int("bytes", len(data)).
		Msg("file uploaded to cloudinary")

	return result.SecureURL, nil
}

// uploadTarget splits key into a folder and public id. PDFs are stored as raw
// assets, which keep their extension in the public id.
func uploadTarget(baseFolder, key, contentType string) (folder, publicID, resourceType string) {
	key = strings.Trim(key, "/")
	dir, file := path.Split(key)

	folder = strings.Trim(path.Join(baseFolder, dir), "/")
	resourceType = "auto"
	publicID = strings.TrimSuffix(file, path.Ext(file))

	if strings.EqualFold(strings.TrimSpace(contentType), "application/pdf") {
		resourceType = "raw"
		publicID = file
	}

	return folder, publicID, resourceType
}
