// Package req provides helpers for HTTP request parsing and data binding,
// covering both JSON bodies and the form/multipart surfaces.
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ProJug/Grunt/internal/pkg/errs"
)

const (
	// MaxFormMemory is the memory limit (32 MB) ParseMultipartForm uses for
	// non-file fields before spilling to temporary files.
	MaxFormMemory int64 = 32 << 20 // 32 MB

	// MaxRequestFileSize caps the entire request body, files included,
	// enforced via http.MaxBytesReader.
	MaxRequestFileSize int64 = 20 << 20 // 20 MB
)

// BindJSON binds the JSON request body to dst, rejecting unknown fields and
// trailing content.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// SetupMultipart caps and parses multipart form data from the request.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestFileSize)

	err := r.ParseMultipartForm(MaxFormMemory)

	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

// FormValue returns the trimmed form value for key. It parses the form body
// on demand and tolerates both URL-encoded and JSON-less form posts.
func FormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
