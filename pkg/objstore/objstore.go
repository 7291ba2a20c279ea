package objstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds everything needed to reach one bucket on one store.
// All fields are required and must be non-empty after trimming.
type Config struct {
	// AccessKey is the store access key ID.
	AccessKey string

	// SecretKey is the store secret access key.
	SecretKey string

	// Region is the store region, e.g. "ap-southeast-1". It must match the
	// region segment of Endpoint; a mismatched pair is not detectable at
	// construction time and surfaces as a RegionMismatch preflight failure.
	Region string

	// Endpoint is the base URL of the store, e.g.
	// "https://s3.ap-southeast-1.wasabisys.com". Scheme and host required.
	Endpoint string

	// Bucket is the target bucket name.
	Bucket string
}

// validate reports every missing field, not just the first.
func (c Config) validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"AccessKey", c.AccessKey},
		{"SecretKey", c.SecretKey},
		{"Region", c.Region},
		{"Endpoint", c.Endpoint},
		{"Bucket", c.Bucket},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &Error{
			Kind: KindConfig,
			Op:   "config",
			Err:  fmt.Errorf("missing fields: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// storeAPI is the subset of the S3 API the client depends on.
// Narrowing the surface keeps fakes small in tests.
type storeAPI interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// presignAPI is the subset of the S3 presign API the client depends on.
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Compile-time checks: the real SDK clients satisfy the narrow interfaces.
var (
	_ storeAPI   = (*s3.Client)(nil)
	_ presignAPI = (*s3.PresignClient)(nil)
)

// Client is a long-lived handle to one bucket on one S3-compatible store.
// It is immutable after New and safe for concurrent use.
type Client struct {
	api     storeAPI
	presign presignAPI
	cfg     Config
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for probe and upload diagnostics.
// Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a Client bound to cfg. The underlying SDK client uses a
// static credentials provider, path-style addressing, and SigV4 signing;
// it never reads the process environment.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, &Error{Kind: KindClientInit, Op: "new_client", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, &Error{
			Kind: KindClientInit,
			Op:   "new_client",
			Err:  fmt.Errorf("endpoint %q must be an absolute http(s) URL", cfg.Endpoint),
		}
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	c := &Client{
		api:     client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Bucket returns the bucket name the client is bound to.
func (c *Client) Bucket() string { return c.cfg.Bucket }

// Endpoint returns the endpoint URL the client is bound to.
func (c *Client) Endpoint() string { return c.cfg.Endpoint }

// Region returns the region the client is bound to.
func (c *Client) Region() string { return c.cfg.Region }
