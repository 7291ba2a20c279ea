package objstore

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// DefaultPresignTTL is used when the caller passes a non-positive TTL.
	DefaultPresignTTL = time.Hour

	// MaxPresignTTL caps how long a link may stay valid. SigV4 refuses
	// anything past seven days, so larger requests are clamped here
	// instead of failing at the store.
	MaxPresignTTL = 7 * 24 * time.Hour
)

// Link is a presigned, time-limited download URL for one object.
type Link struct {
	// URL is the full presigned GET URL including the signature query.
	URL string

	// ExpiresAt is when the signature stops being accepted.
	ExpiresAt time.Time
}

// PresignDownload signs a GET for key and returns the link. Signing is
// local computation; no request reaches the store. ttl <= 0 selects
// DefaultPresignTTL and anything above MaxPresignTTL is clamped.
func (c *Client) PresignDownload(ctx context.Context, key string, ttl time.Duration) (*Link, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	if ttl > MaxPresignTTL {
		ttl = MaxPresignTTL
	}

	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, classify("presign_get", KindPresign, err)
	}

	return &Link{
		URL:       req.URL,
		ExpiresAt: c.now().Add(ttl),
	}, nil
}
