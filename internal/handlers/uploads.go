package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/clipstream/backend/internal/logging"
)

const maxUploadMemory = 32 << 20

var errMissingFile = errors.New("file is missing")

// uploadFormFile copies the named multipart file to a local temp file,
// hands it to the media store, and removes the temp file whether or not
// the upload succeeded.
func uploadFormFile(ctx context.Context, media MediaStore, r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", errMissingFile
		}
		return "", fmt.Errorf("read form file %s: %w", field, err)
	}
	defer file.Close()

	path, err := spoolToTemp(file, header)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			logging.FromContext(ctx).Warn("remove temp upload", "path", path, "error", err)
		}
	}()

	url, err := media.Upload(ctx, path)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", field, err)
	}

	return url, nil
}

func spoolToTemp(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "clipstream-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("spool upload: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), nil
}
