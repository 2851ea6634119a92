// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload provides the middleware that accepts a single image file
// on post-mutation requests. Files are content-sniffed, size-capped, and
// written to the uploads directory under a generated name; violations
// short-circuit the request before validation or controller logic runs.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FieldName is the multipart field a featured image must arrive under.
const FieldName = "featuredImage"

// MaxSize is the maximum allowed upload size (5 MB).
const MaxSize = 5 << 20

// allowedImageTypes defines MIME types accepted for a featured image.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const filenameKey contextKey = "uploadedFilename"

// Image returns a middleware that extracts an optional image upload from
// multipart requests and stores it in dir. The stored filename is placed in
// the request context; requests without a file, or without a multipart
// body, pass through untouched.
func Image(dir string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "multipart/form-data") {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, MaxSize+4096)
			if err := r.ParseMultipartForm(MaxSize); err != nil {
				reject(w, "file too large, maximum size is 5 MB")
				return
			}

			file, header, err := r.FormFile(FieldName)
			if err == http.ErrMissingFile {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				reject(w, "could not read uploaded file")
				return
			}
			defer file.Close()

			if header.Size > MaxSize {
				reject(w, "file too large, maximum size is 5 MB")
				return
			}

			filename, err := save(file, header.Filename, dir)
			if err != nil {
				reject(w, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), filenameKey, filename)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FilenameFromCtx returns the stored filename of the uploaded image, if the
// request carried one.
func FilenameFromCtx(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(filenameKey).(string)
	return name, ok && name != ""
}

// save sniffs the file's content type, validates it against the image
// allowlist, and writes it to dir under a generated unique name.
func save(file io.ReadSeeker, originalName, dir string) (string, error) {
	// Detect content type from the first 512 bytes, not the extension.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("could not read uploaded file")
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("file type %q is not allowed, only images are accepted", contentType)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("could not process uploaded file")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	filename := uuid.New().String() + ext

	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("upload dir create failed", "dir", dir, "error", err)
		return "", fmt.Errorf("could not store uploaded file")
	}

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		slog.Error("upload file create failed", "error", err)
		return "", fmt.Errorf("could not store uploaded file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		slog.Error("upload write failed", "error", err)
		return "", fmt.Errorf("could not store uploaded file")
	}

	return filename, nil
}

// extensionFromType returns a file extension for known image MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// reject writes the 400 upload-rejected envelope.
func reject(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
