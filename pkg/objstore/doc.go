// Package objstore integrates with S3-compatible object stores (Wasabi,
// MinIO, AWS S3) for single-shot file uploads and presigned download links.
//
// A Client is bound to exactly one validated Config at construction time.
// Credentials come only from that Config: the ambient AWS environment,
// shared credential files, and instance metadata are never consulted, so
// stray external credentials cannot be silently substituted. The client
// always uses path-style bucket addressing and SigV4 request signing,
// which is what non-AWS S3-compatible endpoints require.
//
// # Usage
//
//	store, err := objstore.New(objstore.Config{
//		AccessKey: cfg.AccessKey,
//		SecretKey: cfg.SecretKey,
//		Region:    "ap-southeast-1",
//		Endpoint:  "https://s3.ap-southeast-1.wasabisys.com",
//		Bucket:    "my-bucket",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Startup, once: confirm the credentials are accepted.
//	if err := store.VerifyAuth(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	// Per request: preflight, upload, presign.
//	key, link, err := store.UploadAndPresign(ctx, "report.pdf", f, size, "", 0)
//
// # Preflight
//
// Object stores answer with ambiguous, region-coupled errors (a 301-style
// redirect, a malformed-authorization-header response) when the
// endpoint/region pair is wrong. PreflightBucket converts these into a
// named failure with a cheap metadata call and a tiny diagnostic write
// before any real payload is spent on the wire.
//
// # Errors
//
// Every store call is wrapped by a single classifier into *Error carrying
// one Kind out of a small closed set, so callers match on structured kinds
// instead of inspecting raw SDK error shapes. See KindOf.
//
// # Concurrency
//
// A Client is immutable after New and safe for concurrent use by any
// number of simultaneous upload requests. Object keys are request-local
// and unique per attempt (UUID component), so concurrent uploads never
// contend.
package objstore
