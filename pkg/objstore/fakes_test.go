package objstore

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// fakeStore implements storeAPI with overridable handlers and call
// counters so tests can assert which store calls were (not) made.
type fakeStore struct {
	listBucketsFn  func(*s3.ListBucketsInput) (*s3.ListBucketsOutput, error)
	headBucketFn   func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error)
	putObjectFn    func(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
	deleteObjectFn func(*s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)

	listBucketsCalls  int
	headBucketCalls   int
	putObjectCalls    int
	deleteObjectCalls int

	headInputs   []*s3.HeadBucketInput
	putInputs    []*s3.PutObjectInput
	deleteInputs []*s3.DeleteObjectInput
}

func (f *fakeStore) ListBuckets(_ context.Context, in *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	f.listBucketsCalls++
	if f.listBucketsFn != nil {
		return f.listBucketsFn(in)
	}
	return &s3.ListBucketsOutput{}, nil
}

func (f *fakeStore) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.headBucketCalls++
	f.headInputs = append(f.headInputs, in)
	if f.headBucketFn != nil {
		return f.headBucketFn(in)
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putObjectCalls++
	f.putInputs = append(f.putInputs, in)
	if f.putObjectFn != nil {
		return f.putObjectFn(in)
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeStore) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteObjectCalls++
	f.deleteInputs = append(f.deleteInputs, in)
	if f.deleteObjectFn != nil {
		return f.deleteObjectFn(in)
	}
	return &s3.DeleteObjectOutput{}, nil
}

// fakePresigner records the presign options each call resolved to.
type fakePresigner struct {
	calls    int
	lastIn   *s3.GetObjectInput
	lastOpts s3.PresignOptions
	err      error
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.calls++
	f.lastIn = in
	var po s3.PresignOptions
	for _, fn := range optFns {
		fn(&po)
	}
	f.lastOpts = po
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{
		URL:    "https://s3.test.example.com/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key) + "?X-Amz-Signature=c0ffee",
		Method: http.MethodGet,
	}, nil
}

func newTestClient(store storeAPI, pre presignAPI) *Client {
	return &Client{
		api:     store,
		presign: pre,
		cfg: Config{
			AccessKey: "AKIATESTCLIENTKEY001",
			SecretKey: "test-secret",
			Region:    "ap-southeast-1",
			Endpoint:  "https://s3.ap-southeast-1.wasabisys.com",
			Bucket:    "drop-bucket",
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: time.Now,
	}
}

// apiError builds an error shaped like what the SDK surfaces for a store
// rejection: an operation error wrapping an HTTP response error wrapping
// a coded API error.
func apiError(code string, status int) error {
	return &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: "Test",
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{
					Response: &http.Response{StatusCode: status},
				},
				Err: &smithy.GenericAPIError{Code: code, Message: code},
			},
		},
	}
}

// statusError builds a response error that carries only an HTTP status,
// the shape of a bodyless rejection such as a HEAD response.
func statusError(status int) error {
	return &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: "Test",
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{
					Response: &http.Response{StatusCode: status},
				},
				Err: &smithy.GenericAPIError{Code: "UnknownError", Message: "no body"},
			},
		},
	}
}
