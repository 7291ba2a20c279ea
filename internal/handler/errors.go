package handler

import (
	"errors"
	"net/http"

	"github.com/filedrophq/filedrop/pkg/objstore"
)

// Request-side failures, kept separate from store-side kinds.
var (
	errNoFile     = errors.New("no file selected")
	errTooLarge   = errors.New("request body too large")
	errInvalidTTL = errors.New("invalid ttl")
)

// isTooLarge recognizes the cap set by http.MaxBytesReader anywhere in
// a multipart parse failure.
func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// messageFor maps a failure to the text shown to users. Store-side
// messages name the likely fix, not the raw store error.
func messageFor(err error) string {
	switch {
	case errors.Is(err, errNoFile):
		return "No file selected."
	case errors.Is(err, errTooLarge):
		return "File too large."
	case errors.Is(err, errInvalidTTL):
		return "Invalid ttl. Provide a positive number of seconds."
	case errors.Is(err, objstore.ErrEmptyFileName):
		return "Invalid filename."
	}

	switch objstore.KindOf(err) {
	case objstore.KindBucketNotFound:
		return "Bucket not found. Check spelling and region."
	case objstore.KindAccessDenied:
		return "Access denied to bucket. Keys must belong to the same storage account and have s3:ListBucket & s3:PutObject."
	case objstore.KindWritePermission:
		return "Bucket is readable but not writable. Keys need s3:PutObject."
	case objstore.KindRegionMismatch:
		return "Region mismatch. Set STORAGE_REGION to the bucket's region and use the matching endpoint host."
	case objstore.KindAuth:
		return "Storage credentials were rejected."
	case objstore.KindUpload:
		return "Upload failed. Try again."
	case objstore.KindPresign:
		return "The file was stored but the download link could not be signed."
	default:
		return "Unexpected storage error."
	}
}

// statusFor maps a failure to an HTTP status: 4xx when the request was
// at fault, 502 when the store refused us, 500 otherwise.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoFile), errors.Is(err, errInvalidTTL),
		errors.Is(err, objstore.ErrEmptyFileName):
		return http.StatusBadRequest
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	}

	switch objstore.KindOf(err) {
	case objstore.KindAuth, objstore.KindBucketNotFound, objstore.KindAccessDenied,
		objstore.KindWritePermission, objstore.KindRegionMismatch,
		objstore.KindUpload, objstore.KindPresign:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
