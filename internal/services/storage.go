package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"itrportal/internal/config"
)

// BlobStore uploads document bytes and returns a public URL
type BlobStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// S3Storage stores onboarding documents in an S3-compatible bucket
// (AWS S3 or MinIO via a custom endpoint)
type S3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})

	publicBaseURL := cfg.S3PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &S3Storage{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("documents/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3Storage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := storageKey()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"original-name": name},
	})
	if err != nil {
		return "", err
	}

	return s.publicBaseURL + "/" + key, nil
}
