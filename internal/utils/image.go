package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowed extensions for uploaded play images
var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// ErrBadImageType is returned for uploads whose extension is not an
// accepted image format.
var ErrBadImageType = errors.New("unsupported image type")

// SavePlayImage writes an uploaded play poster under dir/plays and
// returns the stored path relative to dir.  Filenames combine a slug of
// the play title with a random uuid so concurrent uploads for plays with
// identical titles never collide.
func SavePlayImage(dir, title string, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", ErrBadImageType
	}
	name := Slugify(title) + "-" + uuid.NewString() + ext
	rel := filepath.Join("plays", name)

	if err := os.MkdirAll(filepath.Join(dir, "plays"), 0o755); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	dst, err := os.Create(filepath.Join(dir, rel))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return rel, nil
}

// Slugify lowercases s and replaces every run of non-alphanumeric
// characters with a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
