package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/security"
	httputil "github.com/jmylchreest/shirtsort/internal/util/http"
)

// ContextOpener is implemented by sources whose Open may block on the
// network. Callers holding a context should prefer OpenContext.
type ContextOpener interface {
	OpenContext(ctx context.Context) (io.ReadCloser, error)
}

// Open opens src, honouring ctx when the source supports it.
func Open(ctx context.Context, src photo.Source) (io.ReadCloser, error) {
	if co, ok := src.(ContextOpener); ok {
		return co.OpenContext(ctx)
	}
	return src.Open()
}

// FileSource reads a photo from the local filesystem.
type FileSource struct {
	Path string
}

// Name returns the base name of the file.
func (f FileSource) Name() string {
	return filepath.Base(f.Path)
}

// Open opens the file for reading.
func (f FileSource) Open() (io.ReadCloser, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", f.Path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", f.Path)
	}

	file, err := os.Open(f.Path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return file, nil
}

// ModTime returns the file modification time, or the zero time.
func (f FileSource) ModTime() time.Time {
	info, err := os.Stat(f.Path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// URLSource fetches a photo over HTTP(S) each time it is opened.
type URLSource struct {
	URL      string
	Timeout  time.Duration
	MaxBytes int64
}

// Name returns the last path element of the URL.
func (u URLSource) Name() string {
	parsed, err := url.Parse(u.URL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return u.URL
	}
	return path.Base(parsed.Path)
}

// Open fetches the photo with a background context.
func (u URLSource) Open() (io.ReadCloser, error) {
	return u.OpenContext(context.Background())
}

// OpenContext fetches the photo.
func (u URLSource) OpenContext(ctx context.Context) (io.ReadCloser, error) {
	data, err := httputil.Fetch(ctx, u.URL, httputil.FetchOptions{
		Timeout:  u.Timeout,
		MaxBytes: u.MaxBytes,
		Accept:   httputil.ImageTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// BytesSource serves an already loaded photo.
type BytesSource struct {
	Filename string
	Data     []byte
}

// Name returns the configured file name.
func (b BytesSource) Name() string {
	return b.Filename
}

// Open returns a reader over the data.
func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// SourceOptions configures NewSource.
type SourceOptions struct {
	// MaxBytes caps remote downloads.
	MaxBytes int64

	// Timeout bounds each remote fetch.
	Timeout time.Duration

	// AllowPrivate permits URLs that point at local or private hosts.
	AllowPrivate bool
}

// IsURL reports whether p looks like an HTTP(S) URL.
func IsURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// NewSource returns a URLSource for HTTP(S) locations and a FileSource
// otherwise.
func NewSource(location string, opts SourceOptions) (photo.Source, error) {
	if IsURL(location) {
		if err := security.ValidateImageURL(location, opts.AllowPrivate); err != nil {
			return nil, err
		}
		return URLSource{URL: location, Timeout: opts.Timeout, MaxBytes: opts.MaxBytes}, nil
	}
	return FileSource{Path: location}, nil
}

// NewSources converts locations with NewSource, preserving order.
func NewSources(locations []string, opts SourceOptions) ([]photo.Source, error) {
	sources := make([]photo.Source, 0, len(locations))
	for _, loc := range locations {
		src, err := NewSource(loc, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", loc, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
