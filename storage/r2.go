package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/uniformsource/backend/config"
)

// R2 stores objects in a Cloudflare R2 bucket through the S3 API. Public URLs
// use the R2 public domain (a custom domain or the r2.dev URL enabled in the
// bucket settings).
type R2 struct {
	s3c          *s3.Client
	bucket       string
	publicDomain string
}

func NewR2(ctx context.Context, cfg config.StorageConfig) (*R2, error) {
	if cfg.R2Bucket == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	awscfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(awscfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2{
		s3c:          client,
		bucket:       cfg.R2Bucket,
		publicDomain: strings.TrimRight(cfg.R2PublicDomain, "/"),
	}, nil
}

func (r *R2) Put(ctx context.Context, objectName string, body io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := r.s3c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(r.bucket),
		Key:          aws.String(objectName),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("%s/%s/%s", r.publicDomain, r.bucket, objectName), nil
}

// ObjectName reverses the path-style public URL Put produces,
// <publicDomain>/<bucket>/<object>.
func (r *R2) ObjectName(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	path := strings.TrimPrefix(u.Path, "/")
	prefix := r.bucket + "/"
	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("url bucket mismatch")
	}
	obj := strings.TrimPrefix(path, prefix)
	if obj == "" {
		return "", fmt.Errorf("missing object path")
	}
	return obj, nil
}

func (r *R2) Delete(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		_, err := r.s3c.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(obj),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}
