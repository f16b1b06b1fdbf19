package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"sneakershop/apperror"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ImageStore persists an uploaded image and returns the public path it is
// served from.
type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// DiskImageStore writes images into Dir, which is served under PublicPrefix.
type DiskImageStore struct {
	Dir          string
	PublicPrefix string
	now          func() time.Time
}

func NewDiskImageStore(dir, publicPrefix string) *DiskImageStore {
	return &DiskImageStore{Dir: dir, PublicPrefix: publicPrefix, now: time.Now}
}

func (s *DiskImageStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", apperror.Validation("Images only!", apperror.FieldError{
			Field: "image", Message: "allowed types are jpg, jpeg, png, webp, gif",
		})
	}

	base := slug.Make(strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename)))
	if base == "" {
		base = "image"
	}
	filename := fmt.Sprintf("%d_%s%s", s.now().UnixNano(), base, ext)

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", apperror.Internal("Failed to create upload folder", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", apperror.Internal("Failed to read image", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, filename))
	if err != nil {
		return "", apperror.Internal("Failed to save image", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", apperror.Internal("Failed to save image", err)
	}
	if err := dst.Close(); err != nil {
		return "", apperror.Internal("Failed to save image", err)
	}

	return path.Join(s.PublicPrefix, filename), nil
}
