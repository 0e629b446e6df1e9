package repository

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
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/pkg/logger"
	"github.com/okian/handicap/pkg/metrics"
)

// ObjectAPI is the subset of the S3 client the store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config addresses the document object. Endpoint is set for S3-compatible
// services such as Cloudflare R2 and left empty for AWS.
type S3Config struct {
	Bucket          string
	Key             string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store keeps the document as a single object in a bucket.
type S3Store struct {
	client ObjectAPI
	bucket string
	key    string
	log    logger.Logger
}

// NewS3Store builds an S3 client from cfg. Static credentials are used when
// both keys are set, otherwise the SDK's default chain applies.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...Option) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 store: bucket and key are required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Key, opts...), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client ObjectAPI, bucket, key string, opts ...Option) *S3Store {
	o := applyOptions(opts)
	return &S3Store{client: client, bucket: bucket, key: key, log: o.log}
}

// Name implements DocumentStore.
func (s *S3Store) Name() string { return "s3" }

// Load implements DocumentStore. A missing object is the default document.
func (s *S3Store) Load(ctx context.Context) (*model.Document, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPersistLatency(s.Name(), "load", float64(time.Since(start).Microseconds())/1000)
	}()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return model.NewDocument(), nil
		}
		metrics.RecordPersistFailure(s.Name(), "load")
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		metrics.RecordPersistFailure(s.Name(), "load")
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return Decode(ctx, s.log, s.Name(), raw), nil
}

// Save implements DocumentStore.
func (s *S3Store) Save(ctx context.Context, doc *model.Document) error {
	start := time.Now()
	defer func() {
		metrics.RecordPersistLatency(s.Name(), "save", float64(time.Since(start).Microseconds())/1000)
	}()

	raw, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		metrics.RecordPersistFailure(s.Name(), "save")
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	s.log.Debug(ctx, "document saved", logger.String("bucket", s.bucket), logger.String("key", s.key))
	return nil
}
