package objstore

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Upload streams r into the bucket under a freshly generated key
// "uploads/<uuid>_<sanitized name>" and returns that key. Every call
// generates a new key, so retrying a failed upload can never collide
// with or overwrite a previous attempt.
//
// size may be zero when the length is unknown; the SDK then falls back
// to its own transfer encoding. contentType may be empty, in which case
// it is sniffed from the first bytes of r.
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	name := SanitizeFileName(fileName)
	if name == "" {
		return "", ErrEmptyFileName
	}

	if contentType == "" {
		contentType, r = detectContentType(r)
	}

	key := "uploads/" + uuid.NewString() + "_" + name

	in := &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := c.api.PutObject(ctx, in); err != nil {
		return "", classify("put_object", KindUpload, err)
	}

	c.log.InfoContext(ctx, "object stored",
		slog.String("key", key),
		slog.String("content_type", contentType),
		slog.Int64("size", size),
	)
	return key, nil
}

// UploadAndPresign is the full happy path: preflight the bucket, stream
// the object in, and return both the key and a time-limited download
// link. ttl <= 0 selects DefaultPresignTTL.
func (c *Client) UploadAndPresign(ctx context.Context, fileName string, r io.Reader, size int64, contentType string, ttl time.Duration) (string, *Link, error) {
	if _, err := c.PreflightBucket(ctx); err != nil {
		return "", nil, err
	}

	key, err := c.Upload(ctx, fileName, r, size, contentType)
	if err != nil {
		return "", nil, err
	}

	link, err := c.PresignDownload(ctx, key, ttl)
	if err != nil {
		return key, nil, err
	}
	return key, link, nil
}
