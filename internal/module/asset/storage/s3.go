// Package storage wraps the S3 client used to sign time-limited object URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds object storage configuration.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UploadURLExpiry time.Duration
}

// Client wraps the S3 client and its presigner for one bucket.
type Client struct {
	client       *s3.Client
	presigner    *s3.PresignClient
	bucket       string
	uploadExpiry time.Duration
}

// NewClient creates a new storage client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete storage configuration")
	}

	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // non-AWS endpoints require path-style URLs
		}
	})

	uploadExpiry := cfg.UploadURLExpiry
	if uploadExpiry == 0 {
		uploadExpiry = time.Hour
	}

	return &Client{
		client:       client,
		presigner:    s3.NewPresignClient(client),
		bucket:       cfg.Bucket,
		uploadExpiry: uploadExpiry,
	}, nil
}

// PresignedURL represents a presigned URL response.
type PresignedURL struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}

// PresignUpload generates a presigned URL authorizing an object upload.
// The validity window is the configured upload expiry.
func (c *Client) PresignUpload(ctx context.Context, key string) (*PresignedURL, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	req, err := c.presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = c.uploadExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &PresignedURL{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(c.uploadExpiry),
	}, nil
}

// PresignDownload generates a presigned URL authorizing an object download,
// valid for the given expiry.
func (c *Client) PresignDownload(ctx context.Context, key string, expiry time.Duration) (*PresignedURL, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	req, err := c.presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}

	return &PresignedURL{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}
