package objstore

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ProbeResult reports what the bucket preflight actually did.
type ProbeResult struct {
	// DiagKey is the key of the diagnostic object that was written.
	DiagKey string

	// Cleaned reports whether the diagnostic object was deleted again.
	// A false value is not an error; leftover diag objects are harmless.
	Cleaned bool
}

// VerifyAuth proves the credentials are accepted by the store by listing
// buckets. It should run once at startup; a failure means every later
// call would fail the same way, so callers are expected to treat it as
// fatal.
func (c *Client) VerifyAuth(ctx context.Context) error {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return classify("list_buckets", KindAuth, err)
	}

	c.log.InfoContext(ctx, "store credentials verified",
		slog.String("endpoint", c.cfg.Endpoint),
		slog.String("region", c.cfg.Region),
		slog.String("access_key", MaskKey(c.cfg.AccessKey)),
		slog.Int("buckets", len(out.Buckets)),
	)
	return nil
}

// Ping heads the bucket, proving the store is reachable and the bucket
// still exists. It is cheaper than a full preflight and suited to
// readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.Bucket),
	}); err != nil {
		return classify("head_bucket", KindBucketNotFound, err)
	}
	return nil
}

// PreflightBucket checks that the configured bucket is reachable and
// writable before any user upload is attempted. It heads the bucket,
// writes a tiny diagnostic object, and deletes it again best-effort.
//
// A HeadBucket failure is classified (bucket missing, access denied,
// region mismatch). A failure on the diagnostic write when the head
// succeeded means reads work but writes do not, so it is always reported
// as KindWritePermission regardless of the store's error code.
func (c *Client) PreflightBucket(ctx context.Context) (*ProbeResult, error) {
	if _, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.Bucket),
	}); err != nil {
		return nil, classify("head_bucket", KindBucketNotFound, err)
	}

	res := &ProbeResult{DiagKey: "diag/" + uuid.NewString() + ".txt"}

	body := "diag"
	if _, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.cfg.Bucket),
		Key:           aws.String(res.DiagKey),
		Body:          strings.NewReader(body),
		ContentType:   aws.String("text/plain"),
		ContentLength: aws.Int64(int64(len(body))),
	}); err != nil {
		return nil, &Error{Kind: KindWritePermission, Op: "diag_put", Err: err}
	}

	if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(res.DiagKey),
	}); err != nil {
		c.log.DebugContext(ctx, "diag object cleanup failed",
			slog.String("key", res.DiagKey),
			slog.Any("error", err),
		)
	} else {
		res.Cleaned = true
	}

	c.log.InfoContext(ctx, "bucket preflight passed",
		slog.String("bucket", c.cfg.Bucket),
		slog.Bool("cleaned", res.Cleaned),
	)
	return res, nil
}
