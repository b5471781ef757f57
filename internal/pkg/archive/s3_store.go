package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"

	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/env"
)

// S3Config holds credentials and addressing for the archive bucket.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string
	Enabled         bool
}

// LoadS3Config reads the archive bucket configuration from the environment.
func LoadS3Config() (*S3Config, error) {
	cfg := &S3Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("S3_ARCHIVE_ENABLED", "false") == "true",
	}
	if cfg.Enabled {
		if cfg.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when S3 archiving is enabled")
		}
		if cfg.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when S3 archiving is enabled")
		}
		if cfg.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when S3 archiving is enabled")
		}
	}
	return cfg, nil
}

// S3Store keeps archives in an S3-compatible bucket. Path-style addressing
// is forced when a custom endpoint is set, for B2/MinIO compatibility.
type S3Store struct {
	client *s3.Client
	cfg    *S3Config
}

func NewS3Store(cfg *S3Config) (*S3Store, error) {
	if !cfg.Enabled {
		return nil, errors.New("S3 archiving is disabled")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	store := &S3Store{client: client, cfg: cfg}
	if _, err := client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: aws.String(cfg.BucketName),
	}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.BucketName, err)
	}

	log.Infof("[Archive] using S3 bucket %s for batch archives", cfg.BucketName)
	return store, nil
}

// objectKey namespaces archives by year and month so bucket listings stay
// manageable.
func (s *S3Store) objectKey(name string, at time.Time) string {
	return fmt.Sprintf("archives/%04d/%02d/%s", at.Year(), int(at.Month()), name)
}

func (s *S3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := s.objectKey(name, time.Now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/zip"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", certerrors.Wrap(certerrors.KindPackagingFailure, "uploading archive to S3", err)
	}

	log.Infof("[Archive] uploaded s3://%s/%s (%d bytes)", s.cfg.BucketName, key, len(data))
	return key, nil
}

func (s *S3Store) Open(ctx context.Context, ref string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(ref),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, certerrors.New(certerrors.KindRecordNotFound, "archive not found")
		}
		return nil, fmt.Errorf("fetching archive from S3: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("deleting archive from S3: %w", err)
	}
	return nil
}
