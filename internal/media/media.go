// Package media stores uploaded files and generated documents and hands back public URLs.
// Stored objects are never deleted.
package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Folders used across the application.
const (
	FolderWeighmentSlips = "weighment-slips"
	FolderClaimMedia     = "claim-requests/supporting-media"
	FolderInvoices       = "invoices"
	FolderClaimForms     = "claim-forms"
)

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

//go:generate mockgen -source=media.go -destination=store_mock.go -package=media
type Store interface {
	Upload(ctx context.Context, f File, folder string) (string, error)
	UploadMultiple(ctx context.Context, files []File, folder string) ([]string, error)
}

// contentType returns the declared type, sniffing the bytes when none was given.
func (f File) contentType() string {
	if f.ContentType != "" && f.ContentType != "application/octet-stream" {
		return f.ContentType
	}

	return http.DetectContentType(f.Data)
}

// objectKey builds "<folder>/<millis>-<uuid>-<name>" with the name reduced to a safe charset.
func objectKey(folder, name string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '_'
		}

		return -1
	}, path.Base(name))

	if safe == "" || safe == "." {
		safe = "file"
	}

	return path.Join(strings.Trim(folder, "/"), fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString(), safe))
}

func uploadAll(ctx context.Context, s Store, files []File, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))

	for _, f := range files {
		url, err := s.Upload(ctx, f, folder)
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", f.Name, err)
		}

		urls = append(urls, url)
	}

	return urls, nil
}
