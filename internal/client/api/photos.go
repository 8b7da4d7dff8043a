package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/avetisovm/amora/internal/client/models"
)

// UploadPhoto reads the image at path and posts it as a multipart upload.
func (c *HTTPClient) UploadPhoto(ctx context.Context, path string, isPrimary bool) (*models.Photo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("is_primary", fmt.Sprintf("%t", isPrimary))

	var photo models.Photo
	if err := c.do(ctx, http.MethodPost, "/photos/", query, buf.Bytes(), writer.FormDataContentType(), &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (c *HTTPClient) DeletePhoto(ctx context.Context, photoID string) error {
	return c.do(ctx, http.MethodDelete, "/photos/"+photoID, nil, nil, "", nil)
}
