package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const maxNameAttempts = 5

type Local struct {
	dir    string
	prefix string
	logger *log.Logger

	now func() time.Time
}

// NewLocal stores files under dir and reports them as prefix/<name>.
func NewLocal(dir, prefix string, logger *log.Logger) (*Local, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("empty upload dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	prefix = strings.Trim(filepath.ToSlash(strings.TrimSpace(prefix)), "/")
	if prefix == "" {
		prefix = strings.Trim(filepath.ToSlash(filepath.Clean(dir)), "/")
	}
	return &Local{dir: dir, prefix: prefix, logger: logger, now: time.Now}, nil
}

func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if r == nil {
		return "", ErrEmptyUpload
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := l.now()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := ObjectName(now.Add(time.Duration(attempt)*time.Millisecond), originalName)
		full := filepath.Join(l.dir, name)

		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return "", fmt.Errorf("create upload file: %w", err)
		}

		n, copyErr := io.Copy(f, r)
		closeErr := f.Close()
		if copyErr == nil && closeErr == nil && n == 0 {
			copyErr = ErrEmptyUpload
		}
		if copyErr != nil || closeErr != nil {
			_ = os.Remove(full)
			if copyErr != nil {
				return "", fmt.Errorf("write upload file: %w", copyErr)
			}
			return "", fmt.Errorf("close upload file: %w", closeErr)
		}

		if l.logger != nil {
			l.logger.Printf("[Storage] Stored upload: name=%s bytes=%d", name, n)
		}
		return path.Join(l.prefix, name), nil
	}

	return "", fmt.Errorf("create upload file: name collision after %d attempts", maxNameAttempts)
}

// Remove deletes a file previously returned by Save. Missing files are not an error.
func (l *Local) Remove(_ context.Context, relPath string) error {
	name := path.Base(filepath.ToSlash(strings.TrimSpace(relPath)))
	if name == "" || name == "." || name == "/" || name == ".." {
		return nil
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
