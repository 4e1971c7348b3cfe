package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/muse-lab/muse-server/internal/errs"
)

// MaxImageSize caps each uploaded image at 5MB.
const MaxImageSize = 5 << 20

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore validates incoming images and writes them under a base dir.
// Files are renamed to uuids so user-supplied names never reach the disk.
type ImageStore struct {
	baseDir   string
	publicURL string
}

func NewImageStore(baseDir, publicURL string) (*ImageStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{baseDir: baseDir, publicURL: publicURL}, nil
}

// ValidateImage checks declared mimetype and size before anything is stored.
func ValidateImage(fh *multipart.FileHeader) error {
	if fh.Size > MaxImageSize {
		return errs.Errorf(errs.EINVALID, "image exceeds the 5MB limit")
	}
	ct := fh.Header.Get("Content-Type")
	if _, ok := imageExt[ct]; !ok {
		return errs.Errorf(errs.EINVALID, "unsupported image type %q", ct)
	}
	return nil
}

// Save validates and persists one image, returning its public URL.
func (s *ImageStore) Save(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if err := ValidateImage(fh); err != nil {
		return "", err
	}
	name := uuid.New().String() + imageExt[fh.Header.Get("Content-Type")]
	if err := c.SaveUploadedFile(fh, filepath.Join(s.baseDir, name)); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.publicURL + "/" + name, nil
}
