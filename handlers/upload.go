package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const (
	maxUploadSize = 10 << 20
	pictureField  = "picture"
)

// Uploads stores pictures sent with multipart requests.
type Uploads struct {
	Dir string
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseForm reads a multipart form and saves its picture file, if any. It
// returns the form values and the stored file name ("" without a picture).
func (u *Uploads) parseForm(r *http.Request) (url.Values, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile(pictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return r.MultipartForm.Value, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read picture: %w", err)
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		return nil, "", errors.New("picture has no file name")
	}
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create assets dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(u.Dir, name))
	if err != nil {
		return nil, "", fmt.Errorf("store picture: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return nil, "", fmt.Errorf("store picture: %w", err)
	}
	log.WithFields(log.Fields{"file": name, "size": header.Size}).Debug("picture stored")

	return r.MultipartForm.Value, name, nil
}
