package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"
)

// FileStore persists uploaded CVs and returns a stable relative path for each.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, relPath string) error
}

var ErrEmptyUpload = errors.New("empty upload")

// ObjectName builds "<epochMillis>-<originalName>" with any directory part stripped.
func ObjectName(now time.Time, originalName string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), sanitizeName(originalName))
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "cv"
	}
	return name
}
