package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("invalid stored file name")

// Stored describes bytes written by Save
type Stored struct {
	FileName string
	URL      string
	Size     int64
}

// LocalStore keeps uploaded files in a directory served under urlPrefix
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// MaxBaseLen caps the original name part of a stored file name
const MaxBaseLen = 100

// Save writes r under "<uuid>-<base name>". A partial file is removed on error.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (*Stored, error) {
	fileName := uuid.NewString() + "-" + SafeBase(originalName)
	path := filepath.Join(s.dir, fileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", fileName, err)
	}

	n, err := io.Copy(f, readerWithContext(ctx, r))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", fileName, err)
	}

	return &Stored{
		FileName: fileName,
		URL:      s.urlPrefix + "/" + fileName,
		Size:     n,
	}, nil
}

// Path returns the on-disk path of a stored file
func (s *LocalStore) Path(fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) || fileName == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, fileName), nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *LocalStore) Remove(ctx context.Context, fileName string) error {
	path, err := s.Path(fileName)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SafeBase reduces a client file name to its base, maps every byte outside
// [A-Za-z0-9._-] to '_' and truncates it to MaxBaseLen keeping the extension.
func SafeBase(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return "file"
	}

	b := []byte(base)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
		default:
			b[i] = '_'
		}
	}
	base = string(b)

	if len(base) > MaxBaseLen {
		ext := filepath.Ext(base)
		if len(ext) > MaxBaseLen/4 {
			ext = ""
		}
		base = base[:MaxBaseLen-len(ext)] + ext
	}
	return base
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
