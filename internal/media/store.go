package media

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbershop-site/internal/config"
)

// Store persists encoded images and returns a reference the site can use
// as an <img> src.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, ref string) error
}

// NewStore picks the backend named by MEDIA_DRIVER.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.MediaDriver {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, "/uploads")
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("media: unknown driver %q", cfg.MediaDriver)
	}
}

// Images converts uploads and hands them to a Store.
type Images struct {
	store    Store
	maxWidth int
}

func NewImages(store Store, maxWidth int) *Images {
	return &Images{store: store, maxWidth: maxWidth}
}

// Save converts r to WebP and stores it under prefix with a random name.
func (i *Images) Save(ctx context.Context, prefix string, r io.Reader) (string, error) {
	data, err := ToWebP(r, i.maxWidth)
	if err != nil {
		return "", err
	}
	key := path.Join(prefix, uuid.NewString()+".webp")
	return i.store.Put(ctx, key, data, "image/webp")
}

// Remove ignores empty references.
func (i *Images) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return i.store.Remove(ctx, ref)
}
