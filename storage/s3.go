package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Mirror copies pipeline output (feed document and cached images) to an
// S3 bucket. It is optional; the pipeline skips mirroring when nil.
type Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

// MirrorConfig selects the target bucket. Region falls back to the
// standard AWS config/credential chain when empty.
type MirrorConfig struct {
	Bucket string
	Region string
	Prefix string
}

// NewMirror creates an S3 mirror using the default AWS configuration
// chain with optional overrides.
func NewMirror(ctx context.Context, cfg MirrorConfig) (*Mirror, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &Mirror{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Put uploads an object under the mirror prefix.
func (m *Mirror) Put(ctx context.Context, key string, data []byte, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.prefix + key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err := m.client.PutObject(ctx, in)
	return err
}

// Exists reports whether an object is already mirrored (HTTP 200 from
// HeadObject; false on 404).
func (m *Mirror) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.prefix + key),
	})
	if err == nil {
		return true, nil
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	return false, err
}
