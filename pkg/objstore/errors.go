package objstore

import (
	"errors"
	"fmt"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// Kind identifies the failure category of a store operation. The set is
// closed: callers switch on it to pick user-facing messages and HTTP
// statuses without string matching.
type Kind string

const (
	// KindConfig means required configuration was missing or malformed.
	KindConfig Kind = "config"

	// KindClientInit means the SDK client could not be constructed,
	// typically from an unparseable endpoint URL.
	KindClientInit Kind = "client_init"

	// KindAuth means the credentials were rejected by the store.
	KindAuth Kind = "auth"

	// KindBucketNotFound means the bucket does not exist on this
	// endpoint, or the endpoint points at the wrong region's host.
	KindBucketNotFound Kind = "bucket_not_found"

	// KindAccessDenied means the credentials lack permission on the
	// bucket (s3:ListBucket on the bucket itself).
	KindAccessDenied Kind = "access_denied"

	// KindWritePermission means reads succeed but writes are refused
	// (missing s3:PutObject).
	KindWritePermission Kind = "write_permission"

	// KindRegionMismatch means the configured region does not match the
	// bucket's actual region, so SigV4 signatures are rejected.
	KindRegionMismatch Kind = "region_mismatch"

	// KindUpload means the object write itself failed.
	KindUpload Kind = "upload"

	// KindPresign means the download link could not be signed.
	KindPresign Kind = "presign"
)

// Input validation errors.
var (
	// ErrEmptyFileName is returned when the upload file name is empty or
	// sanitizes down to nothing.
	ErrEmptyFileName = errors.New("empty file name")

	// ErrEmptyKey is returned when a presign is requested for an empty key.
	ErrEmptyKey = errors.New("empty object key")
)

// Error is the classified failure of a store operation.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Op names the operation that failed, e.g. "head_bucket".
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("objstore: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("objstore: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err. It returns the zero Kind when err
// is nil or was not produced by this package.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// classify wraps err into an *Error, mapping well-known store error codes
// and HTTP statuses onto Kinds. Errors that match nothing keep fallback.
func classify(op string, fallback Kind, err error) *Error {
	kind := fallback

	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			kind = KindBucketNotFound
		case "AccessDenied", "Forbidden":
			kind = KindAccessDenied
		case "AuthorizationHeaderMalformed", "PermanentRedirect":
			// The store answers from another region's endpoint; the
			// signature carries the wrong region scope.
			kind = KindRegionMismatch
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			kind = KindAuth
		}
	}

	if kind == fallback {
		switch httpStatus(err) {
		case 404:
			kind = KindBucketNotFound
		case 403:
			kind = KindAccessDenied
		case 301:
			kind = KindRegionMismatch
		}
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

// httpStatus digs the HTTP status code out of an SDK response error.
// Returns 0 when err carries no response.
func httpStatus(err error) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	var sc interface{ HTTPStatusCode() int }
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}
