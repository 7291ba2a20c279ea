package objstore

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	t.Parallel()

	t.Run("stores under generated key", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		c := newTestClient(store, &fakePresigner{})

		key, err := c.Upload(context.Background(), "report.pdf", strings.NewReader("content"), 7, "application/pdf")
		require.NoError(t, err)
		require.Regexp(t, `^uploads/[0-9a-f-]{36}_report\.pdf$`, key)

		require.Equal(t, 1, store.putObjectCalls)
		put := store.putInputs[0]
		require.Equal(t, "drop-bucket", aws.ToString(put.Bucket))
		require.Equal(t, key, aws.ToString(put.Key))
		require.Equal(t, "application/pdf", aws.ToString(put.ContentType))
		require.Equal(t, int64(7), aws.ToInt64(put.ContentLength))
	})

	t.Run("fresh key per attempt", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		c := newTestClient(store, &fakePresigner{})

		first, err := c.Upload(context.Background(), "report.pdf", strings.NewReader("a"), 1, "application/pdf")
		require.NoError(t, err)
		second, err := c.Upload(context.Background(), "report.pdf", strings.NewReader("a"), 1, "application/pdf")
		require.NoError(t, err)
		require.NotEqual(t, first, second)
	})

	t.Run("sanitizes the file name", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		c := newTestClient(store, &fakePresigner{})

		key, err := c.Upload(context.Background(), "../../my report (final).pdf", strings.NewReader("x"), 1, "application/pdf")
		require.NoError(t, err)
		require.Regexp(t, `^uploads/[0-9a-f-]{36}_my_report_final_\.pdf$`, key)
		require.NotContains(t, key, "..")
	})

	t.Run("empty name is rejected before any store call", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		c := newTestClient(store, &fakePresigner{})

		_, err := c.Upload(context.Background(), "", strings.NewReader("x"), 1, "text/plain")
		require.ErrorIs(t, err, ErrEmptyFileName)
		require.Equal(t, 0, store.putObjectCalls)
	})

	t.Run("name that sanitizes to nothing is rejected", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		c := newTestClient(store, &fakePresigner{})

		_, err := c.Upload(context.Background(), "...", strings.NewReader("x"), 1, "text/plain")
		require.ErrorIs(t, err, ErrEmptyFileName)
		require.Equal(t, 0, store.putObjectCalls)
	})

	t.Run("sniffs content type when none given", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		c := newTestClient(store, &fakePresigner{})

		pdf := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("x"), 600)...)
		_, err := c.Upload(context.Background(), "report.pdf", bytes.NewReader(pdf), int64(len(pdf)), "")
		require.NoError(t, err)
		require.Equal(t, "application/pdf", aws.ToString(store.putInputs[0].ContentType))
	})

	t.Run("unknown size leaves content length unset", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		c := newTestClient(store, &fakePresigner{})

		_, err := c.Upload(context.Background(), "a.txt", strings.NewReader("x"), 0, "text/plain")
		require.NoError(t, err)
		require.Nil(t, store.putInputs[0].ContentLength)
	})

	t.Run("store rejection classifies as upload failure", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{
			putObjectFn: func(*s3.PutObjectInput) (*s3.PutObjectOutput, error) {
				return nil, apiError("SlowDown", 503)
			},
		}
		c := newTestClient(store, &fakePresigner{})

		_, err := c.Upload(context.Background(), "a.txt", strings.NewReader("x"), 1, "text/plain")
		require.Error(t, err)
		require.Equal(t, KindUpload, KindOf(err))
	})
}

func TestUploadAndPresign(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		pre := &fakePresigner{}
		c := newTestClient(store, pre)

		key, link, err := c.UploadAndPresign(context.Background(), "report.pdf", strings.NewReader("content"), 7, "application/pdf", 0)
		require.NoError(t, err)
		require.Regexp(t, `^uploads/[0-9a-f-]{36}_report\.pdf$`, key)
		require.NotNil(t, link)
		require.Contains(t, link.URL, key)
		require.Contains(t, link.URL, "X-Amz-Signature=")

		// One diag write plus the user object.
		require.Equal(t, 1, store.headBucketCalls)
		require.Equal(t, 2, store.putObjectCalls)
		require.True(t, strings.HasPrefix(aws.ToString(store.putInputs[0].Key), "diag/"))
		require.Equal(t, key, aws.ToString(store.putInputs[1].Key))
		require.Equal(t, 1, pre.calls)
		require.Equal(t, DefaultPresignTTL, pre.lastOpts.Expires)
	})

	t.Run("preflight failure skips the upload", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{
			headBucketFn: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				return nil, apiError("NoSuchBucket", 404)
			},
		}
		pre := &fakePresigner{}
		c := newTestClient(store, pre)

		_, _, err := c.UploadAndPresign(context.Background(), "report.pdf", strings.NewReader("x"), 1, "application/pdf", time.Minute)
		require.Error(t, err)
		require.Equal(t, KindBucketNotFound, KindOf(err))
		require.Equal(t, 0, store.putObjectCalls)
		require.Equal(t, 0, pre.calls)
	})

	t.Run("upload failure skips the presign", func(t *testing.T) {
		t.Parallel()
		diagDone := false
		store := &fakeStore{}
		store.putObjectFn = func(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			if !diagDone {
				diagDone = true
				return &s3.PutObjectOutput{}, nil
			}
			return nil, apiError("SlowDown", 503)
		}
		pre := &fakePresigner{}
		c := newTestClient(store, pre)

		_, _, err := c.UploadAndPresign(context.Background(), "report.pdf", strings.NewReader("x"), 1, "application/pdf", time.Minute)
		require.Error(t, err)
		require.Equal(t, KindUpload, KindOf(err))
		require.Equal(t, 0, pre.calls)
	})
}
