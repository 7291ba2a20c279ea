// Package handler serves the upload page and the upload API.
package handler

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/filedrophq/filedrop/internal/response"
	"github.com/filedrophq/filedrop/pkg/logger"
	"github.com/filedrophq/filedrop/pkg/objstore"
)

const (
	// maxMemory is how much of a parsed multipart form is held in memory
	// before parts spill to temp files.
	maxMemory = 32 << 20

	// maxBodySize caps the whole request body.
	maxBodySize = 512 << 20
)

//go:embed templates/index.html.tmpl
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl"))

// Store is the slice of the object store client the handlers depend on.
type Store interface {
	UploadAndPresign(ctx context.Context, fileName string, r io.Reader, size int64, contentType string, ttl time.Duration) (string, *objstore.Link, error)
}

var _ Store = (*objstore.Client)(nil)

// StoreInfo labels the upload page with where files will land.
type StoreInfo struct {
	Endpoint string
	Region   string
	Bucket   string
}

// Handler holds everything the upload endpoints need.
type Handler struct {
	store Store
	info  StoreInfo
	ttl   time.Duration
	log   *slog.Logger
}

// New creates a Handler. A non-positive ttl selects the store default;
// a nil log discards.
func New(store Store, info StoreInfo, ttl time.Duration, log *slog.Logger) *Handler {
	if ttl <= 0 {
		ttl = objstore.DefaultPresignTTL
	}
	if log == nil {
		log = logger.NewNope()
	}
	return &Handler{store: store, info: info, ttl: ttl, log: log}
}

type pageData struct {
	Endpoint string
	Region   string
	Bucket   string
	TTLText  string
	URL      string
	Error    string
}

func (h *Handler) page() pageData {
	return pageData{
		Endpoint: h.info.Endpoint,
		Region:   h.info.Region,
		Bucket:   h.info.Bucket,
		TTLText:  ttlText(h.ttl),
	}
}

// ShowForm renders the upload page.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.page())
}

// HandleForm accepts a browser upload and renders the page again with
// either the presigned link or a human-readable error.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	data := h.page()

	file, header, err := openUpload(w, r)
	if err != nil {
		data.Error = messageFor(err)
		h.render(w, statusFor(err), data)
		return
	}
	defer file.Close()

	_, link, err := h.store.UploadAndPresign(r.Context(),
		header.Filename, file, header.Size, header.Header.Get("Content-Type"), h.ttl)
	if err != nil {
		h.logFailure(r.Context(), header.Filename, err)
		data.Error = messageFor(err)
		h.render(w, statusFor(err), data)
		return
	}

	data.URL = link.URL
	h.render(w, http.StatusOK, data)
}

// HandleAPI accepts a multipart upload and answers JSON: 201 with the
// object key and presigned link, or a classified error. An optional
// "ttl" form field (seconds) overrides the configured link lifetime.
func (h *Handler) HandleAPI(w http.ResponseWriter, r *http.Request) {
	file, header, err := openUpload(w, r)
	if err != nil {
		response.Error(w, statusFor(err), messageFor(err))
		return
	}
	defer file.Close()

	ttl, err := h.requestTTL(r)
	if err != nil {
		response.Error(w, statusFor(err), messageFor(err))
		return
	}

	key, link, err := h.store.UploadAndPresign(r.Context(),
		header.Filename, file, header.Size, header.Header.Get("Content-Type"), ttl)
	if err != nil {
		h.logFailure(r.Context(), header.Filename, err)
		response.Error(w, statusFor(err), messageFor(err))
		return
	}

	response.Created(w, uploadResult{
		Key:       key,
		URL:       link.URL,
		ExpiresAt: link.ExpiresAt,
	})
}

type uploadResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// requestTTL returns the link lifetime for one API request: the "ttl"
// form field in seconds when present, the configured default otherwise.
// The store caps whatever comes through at the signing limit.
func (h *Handler) requestTTL(r *http.Request) (time.Duration, error) {
	raw := strings.TrimSpace(r.FormValue("ttl"))
	if raw == "" {
		return h.ttl, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0, errInvalidTTL
	}
	return time.Duration(secs) * time.Second, nil
}

// openUpload pulls the "file" part out of the multipart body.
func openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if r.ContentLength > maxBodySize {
		return nil, nil, errTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if isTooLarge(err) {
			return nil, nil, errTooLarge
		}
		return nil, nil, errNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errNoFile
	}
	if header.Filename == "" {
		_ = file.Close()
		return nil, nil, errNoFile
	}
	return file, header, nil
}

func (h *Handler) logFailure(ctx context.Context, fileName string, err error) {
	h.log.ErrorContext(ctx, "upload failed",
		slog.String("file_name", fileName),
		slog.String("kind", string(objstore.KindOf(err))),
		slog.Any("error", err),
	)
}

// render executes the page template into a buffer first so a template
// fault cannot leave a half-written response.
func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		h.log.Error("page render failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ttlText humanizes a link lifetime for the page copy.
func ttlText(d time.Duration) string {
	day := 24 * time.Hour
	switch {
	case d >= day && d%day == 0:
		n := int(d / day)
		if n == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", n)
	case d >= time.Hour && d%time.Hour == 0:
		n := int(d / time.Hour)
		if n == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", n)
	case d >= time.Minute && d%time.Minute == 0:
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	default:
		return d.String()
	}
}
