// Package storage keeps recipe images on local disk or in an S3 bucket.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 10 * 1024 * 1024 // 10 MB

var (
	ErrInvalidDataURI  = errors.New("image must be a base64 data URI")
	ErrInvalidMimeType = errors.New("unsupported image type")
	ErrImageTooLarge   = errors.New("image is too large")
)

var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store persists image bytes and returns the public URL.
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// DecodeDataURI parses "data:image/png;base64,...." and returns bytes and the sniffed type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, "", ErrInvalidDataURI
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidDataURI
	}
	if len(data) > MaxImageSize {
		return nil, "", ErrImageTooLarge
	}

	// trust the bytes, not the declared type
	mimeType := strings.Split(http.DetectContentType(data), ";")[0]
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return nil, "", ErrInvalidMimeType
	}
	return data, mimeType, nil
}

// NewKey builds "recipes/YYYY/MM/DD/<uuid>.<ext>".
func NewKey(prefix, contentType string, now time.Time) string {
	ext := allowedMimeTypes[contentType]
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", prefix, now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)
}

// SaveDataURI decodes uri and stores it under the recipes prefix.
func SaveDataURI(ctx context.Context, store Store, uri string) (string, error) {
	data, mimeType, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}
	return store.Save(ctx, NewKey("recipes", mimeType, time.Now()), data, mimeType)
}
