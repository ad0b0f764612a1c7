// Package images validates and analyzes uploaded cover images.
package images

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"path/filepath"
	"strings"

	"github.com/inkshelf/inkshelf-server/internal/errors"
)

// allowedExtensions maps accepted file extensions to their MIME types.
// The allow-list is deliberately small; covers are display images only.
var allowedExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// Result holds everything the store needs to persist a cover.
type Result struct {
	Hash     string // hex MD5 of the raw bytes, used for dedup
	Ext      string // normalized extension without the dot
	MimeType string
	BlurHash string
	Width    int
	Height   int
}

// Process validates an uploaded image against the extension allow-list,
// decodes it, and computes the content hash and BlurHash placeholder.
// filename is the client-declared name; only its extension matters.
func Process(data []byte, filename string) (*Result, error) {
	if len(data) == 0 {
		return nil, errors.Validation("image data cannot be empty")
	}

	ext := NormalizeExt(filename)
	mime, ok := allowedExtensions[ext]
	if !ok {
		return nil, errors.UnsupportedMediaf("unsupported image type %q, expected png, jpg, jpeg, or gif", ext)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Validationf("cannot decode image: %v", err)
	}

	bounds := img.Bounds()

	hash, err := ComputeBlurHash(img)
	if err != nil {
		// A missing placeholder is not worth failing the upload over.
		hash = ""
	}

	return &Result{
		Hash:     ContentHash(data),
		Ext:      ext,
		MimeType: mime,
		BlurHash: hash,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// ContentHash returns the hex MD5 digest of data. MD5 is used as a dedup
// fingerprint only, never for security.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// NormalizeExt extracts the lowercase extension of a filename, without the
// leading dot. "Cover.JPG" -> "jpg".
func NormalizeExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// MimeForExt returns the MIME type for a stored extension, or
// application/octet-stream when unknown.
func MimeForExt(ext string) string {
	if mime, ok := allowedExtensions[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
