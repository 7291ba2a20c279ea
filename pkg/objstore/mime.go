package objstore

import (
	"bytes"
	"io"
	"net/http"
)

const (
	mimeOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType looks at up to 512 bytes
)

// detectContentType sniffs the MIME type from the first bytes of r and
// returns a reader that still yields the full content. Seekable readers
// are rewound in place; everything else gets the sniffed head stitched
// back on so the body keeps streaming.
func detectContentType(r io.Reader) (string, io.Reader) {
	if rs, ok := r.(io.ReadSeeker); ok {
		buf := make([]byte, mimeDetectionBytes)
		n, _ := rs.Read(buf)
		_, _ = rs.Seek(0, io.SeekStart)
		if n > 0 {
			return http.DetectContentType(buf[:n]), rs
		}
		return mimeOctetStream, rs
	}

	buf := make([]byte, mimeDetectionBytes)
	n, _ := io.ReadFull(r, buf)
	head := buf[:n]
	rest := io.MultiReader(bytes.NewReader(head), r)
	if n == 0 {
		return mimeOctetStream, rest
	}
	return http.DetectContentType(head), rest
}
