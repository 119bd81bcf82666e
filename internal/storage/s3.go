package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/spec-kit/lighthouse-migrator/internal/config"
	"github.com/spec-kit/lighthouse-migrator/pkg/util"
)

// S3Uploader stores attachment bytes in a public-read S3 bucket.
type S3Uploader struct {
	client   *s3.Client
	bucket   string
	endpoint string
	retryMax time.Duration
	logger   *zap.Logger
}

// NewS3Uploader connects to S3 using static credentials. Missing access keys
// are a fatal configuration error, matching the run-abort policy.
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig, retryMax time.Duration, logger *zap.Logger) (*S3Uploader, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, util.NewConfigError("S3 access keys are required", nil)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		retryMax: retryMax,
		logger:   logger,
	}, nil
}

// Upload puts the object with the declared content type and public-read
// visibility, retrying transient failures with exponential backoff, and
// returns the object's public URI.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	put := func() error {
		_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(filename),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
			ACL:         types.ObjectCannedACLPublicRead,
		})
		return err
	}

	// BackOff implementations are stateful; always use a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = u.retryMax

	err := backoff.Retry(func() error {
		err := put()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		u.logger.Warn("upload attempt failed, retrying",
			zap.String("filename", filename),
			zap.Error(err))
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return "", util.NewUploadError(filename, err)
	}

	uri := u.PublicURL(filename)
	u.logger.Debug("uploaded attachment",
		zap.String("filename", filename),
		zap.String("uri", uri))
	return uri, nil
}

// PublicURL builds the public object URI. With a custom endpoint the bucket
// is addressed path-style, otherwise virtual-host style on amazonaws.com.
func (u *S3Uploader) PublicURL(key string) string {
	escaped := url.PathEscape(key)
	if u.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.endpoint, "/"), u.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, escaped)
}
