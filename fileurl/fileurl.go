package fileurl

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"unicode/utf8"
)

// Conversion failure kinds, matchable with errors.Is
var (
	ErrSchemeNotFile = errors.New("scheme is not 'file'")
	ErrNotFilePath   = errors.New("cannot be converted to a file path")
	ErrPathNotUTF8   = errors.New("path is not valid UTF-8")
)

// ToPath converts a file: URL string to a filesystem path.
// Pure and deterministic, no side effects.
func ToPath(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", fileURL, err)
	}

	if u.Scheme != "file" {
		return "", fmt.Errorf("%q: %w", fileURL, ErrSchemeNotFile)
	}

	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%q has host %q: %w", fileURL, u.Host, ErrNotFilePath)
	}

	path := u.Path
	if path == "" || !filepath.IsAbs(path) {
		return "", fmt.Errorf("%q: %w", fileURL, ErrNotFilePath)
	}

	if !utf8.ValidString(path) {
		return "", fmt.Errorf("%q: %w", fileURL, ErrPathNotUTF8)
	}

	return filepath.FromSlash(path), nil
}
