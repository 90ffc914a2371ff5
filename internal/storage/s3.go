package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/creator-marketplace/backend/internal/config"
)

// Uploader stores campaign files (brief documents, cover images) in S3 and
// returns their public URLs.
type Uploader struct {
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

func NewUploader(ctx context.Context, cfg *config.Config) (*Uploader, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg)

	baseURL := strings.TrimRight(cfg.S3PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.AWSRegion)
	}

	return &Uploader{
		uploader:      manager.NewUploader(client),
		bucket:        cfg.S3Bucket,
		publicBaseURL: baseURL,
	}, nil
}

// UploadCampaignFile writes the file under campaigns/<id>/<kind>-<uuid><ext>
// and returns the public URL.
func (u *Uploader) UploadCampaignFile(ctx context.Context, campaignID uuid.UUID, kind, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("campaigns/%s/%s-%s%s", campaignID, kind, uuid.New().String(), path.Ext(filename))

	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(u.bucket),
		Key:         awssdk.String(key),
		Body:        body,
		ContentType: awssdk.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}
