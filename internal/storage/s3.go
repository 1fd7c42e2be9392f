package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// S3PhotoStore keeps photos in an S3 (or S3 compatible) bucket
type S3PhotoStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   *logrus.Logger
}

// NewS3PhotoStore creates a store for cfg.Bucket using the default AWS credential chain
func NewS3PhotoStore(ctx context.Context, cfg Config, logger *logrus.Logger) (*S3PhotoStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for the s3 photo store")
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	root := s3URI(cfg.Bucket, prefix)
	if prefix != "" {
		root += "/"
	}
	if err := checkReferenceRoom(root); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3PhotoStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   prefix,
		logger:   logger,
	}, nil
}

// Store uploads data and returns an s3:// URI for it
func (s *S3PhotoStore) Store(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPhoto
	}

	name, err := objectName(filename)
	if err != nil {
		return "", err
	}
	key := s.key(name)
	if len(s3URI(s.bucket, key)) > MaxReferenceLength {
		return "", ErrReferenceTooLong
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"bucket": s.bucket,
			"key":    key,
		}).Error("Failed to upload photo to S3")
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s3URI(s.bucket, key), nil
}

// Remove deletes an object previously returned by Store
func (s *S3PhotoStore) Remove(ctx context.Context, reference string) error {
	bucket, key, ok := parseS3URI(reference)
	if !ok || bucket != s.bucket {
		return ErrForeignReference
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3PhotoStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func s3URI(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

func parseS3URI(reference string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(reference, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
