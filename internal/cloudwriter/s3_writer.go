package cloudwriter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Writer struct {
	ctx         context.Context
	client      *s3.Client
	bucket      string
	objectPath  string
	contentType string
	buffer      bytes.Buffer
	closed      bool
}

type S3WriterFactory struct {
	ctx    context.Context
	client *s3.Client
}

// NewS3WriterFactory loads the default AWS config for region. A non-empty
// endpoint switches to path-style addressing against that endpoint.
func NewS3WriterFactory(ctx context.Context, region, endpoint string) (*S3WriterFactory, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3WriterFactory{ctx: ctx, client: client}, nil
}

func (f *S3WriterFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &S3Writer{
		ctx:         f.ctx,
		client:      f.client,
		bucket:      bucket,
		objectPath:  objectPath,
		contentType: "application/vnd.apache.parquet",
	}, nil
}

func (w *S3Writer) Write(data []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write to closed S3 writer for %s", w.objectPath)
	}
	return w.buffer.Write(data)
}

func (w *S3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(w.objectPath),
		Body:        bytes.NewReader(w.buffer.Bytes()),
		ContentType: aws.String(w.contentType),
	})
	if err != nil {
		return fmt.Errorf("unable to upload %s to S3: %w", w.objectPath, err)
	}
	return nil
}
