// Package storage keeps uploaded images on the local filesystem under a public URL prefix.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSize = 10 * 1024 * 1024 // 10 MB

var (
	ErrInvalidDataURI  = errors.New("image must be a base64 data URI")
	ErrInvalidMimeType = errors.New("image type is not allowed")
	ErrImageTooLarge   = errors.New("image exceeds maximum allowed size")
	ErrEmptyImage      = errors.New("image is empty")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>" and sniffs the real content
// type from the decoded bytes.
func DecodeDataURI(raw string) ([]byte, string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return nil, "", ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, "", ErrInvalidDataURI
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, "", ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrInvalidDataURI
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return nil, "", ErrImageTooLarge
	}

	mimeType := strings.Split(http.DetectContentType(data), ";")[0]
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return nil, "", ErrInvalidMimeType
	}
	return data, mimeType, nil
}

// MediaStore writes files below root and hands out URLs below baseURL.
type MediaStore struct {
	root    string
	baseURL string
}

func NewMediaStore(root, baseURL string) *MediaStore {
	return &MediaStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *MediaStore) Root() string { return s.root }

// SaveDataURI decodes the image and stores it under dir, returning its public URL.
func (s *MediaStore) SaveDataURI(ctx context.Context, dir, dataURI string) (string, error) {
	data, mimeType, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	absDir := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	filename := uuid.NewString() + allowedImageTypes[mimeType]
	absPath := filepath.Join(absDir, filename)
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write media file: %w", err)
	}

	return s.baseURL + "/" + path.Join(dir, filename), nil
}

// Delete removes the file behind a URL previously returned by SaveDataURI. URLs outside
// the store are ignored.
func (s *MediaStore) Delete(publicURL string) error {
	rel, ok := strings.CutPrefix(publicURL, s.baseURL+"/")
	if !ok || rel == "" {
		return nil
	}
	clean := path.Clean("/" + rel)
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
