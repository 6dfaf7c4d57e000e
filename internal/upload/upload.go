// Package upload stores user supplied images in an S3 compatible bucket.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/metrics"
	"github.com/plura/dashboard/internal/platform"
)

// MaxFileSize is the largest accepted upload in any category.
const MaxFileSize = 4 << 20

type Category string

const (
	CategoryAgencyLogo     Category = "agencyLogo"
	CategorySubAccountLogo Category = "subaccountLogo"
	CategoryAvatar         Category = "avatar"
	CategoryMedia          Category = "media"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAgencyLogo, CategorySubAccountLogo, CategoryAvatar, CategoryMedia:
		return true
	}
	return false
}

var (
	ErrUnknownCategory = errors.New("unknown upload category")
	ErrTooLarge        = errors.New("file exceeds 4MB")
	ErrNotImage        = errors.New("file is not an image")
	ErrEmpty           = errors.New("file is empty")
)

// ObjectPutter is the part of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result describes a stored object.
type Result struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Uploader struct {
	client    ObjectPutter
	bucket    string
	publicURL string
}

func NewUploader(client ObjectPutter, bucket, publicURL string) *Uploader {
	return &Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// NewS3Client returns an S3 client for the given endpoint using static
// credentials and path-style addressing.
func NewS3Client(endpoint, region, accessKey, secretKey string) *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint: aws.String(endpoint),
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})
}

// Put validates one image from r and writes it under the category prefix.
func (u *Uploader) Put(ctx context.Context, category Category, r io.Reader) (*Result, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := validate(data); err != nil {
		metrics.UploadsTotal.WithLabelValues(string(category), "rejected").Inc()
		return nil, err
	}

	mt := mimetype.Detect(data)
	key := platform.NewObjectKey(string(category), mt.Extension())

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mt.String()),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(category), "failed").Inc()
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	metrics.UploadsTotal.WithLabelValues(string(category), "stored").Inc()
	metrics.UploadBytes.WithLabelValues(string(category)).Observe(float64(len(data)))
	zerolog.Ctx(ctx).Debug().Str("key", key).Int("bytes", len(data)).Msg("upload stored")

	return &Result{
		Key:         key,
		URL:         u.publicURL + "/" + key,
		ContentType: mt.String(),
		Size:        int64(len(data)),
	}, nil
}

func validate(data []byte) error {
	switch {
	case len(data) == 0:
		return ErrEmpty
	case len(data) > MaxFileSize:
		return ErrTooLarge
	}
	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if strings.HasPrefix(mt.String(), "image/") {
			return nil
		}
	}
	return ErrNotImage
}
