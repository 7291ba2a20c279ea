package objstore

import (
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFileName strips a user-supplied file name down to a form that
// is safe to embed in an object key: the final path segment only, no
// parent references, and only ASCII word characters, dots, hyphens and
// underscores. Returns "" when nothing safe remains.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)

	// Browsers on some platforms send full paths; keep the last segment.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = strings.ReplaceAll(name, "..", "")
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}

// MaskKey renders an access key for logs: first and last four characters
// with the middle elided. Keys too short to mask safely come back as
// "****".
func MaskKey(k string) string {
	if k == "" {
		return ""
	}
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + ".." + k[len(k)-4:]
}
