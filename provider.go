package tilegrid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/webp" // register WebP
)

// ImageProvider resolves a URL to a decoded raster.
type ImageProvider interface {
	LoadImage(ctx context.Context, url string) (image.Image, error)
}

// MetadataProvider resolves a URL to raw document bytes.
type MetadataProvider interface {
	LoadMetadata(ctx context.Context, url string) ([]byte, error)
}

// maxSniffLen is how many leading bytes format detection inspects.
const maxSniffLen = 262

// DecodeImage sniffs data and decodes it as PNG, JPEG, GIF, BMP or WebP.
// Anything else fails with ErrUnsupportedImage.
func DecodeImage(data []byte) (image.Image, string, error) {
	head := data[:min(len(data), maxSniffLen)]
	if !filetype.IsImage(head) {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrUnsupportedImage, len(data))
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			kind, _ := filetype.Match(head)
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.MIME.Value)
		}
		return nil, "", fmt.Errorf("tilegrid: decode image: %w", err)
	}
	return img, format, nil
}

// FileProvider loads images and metadata from the local file system. URLs
// are slash-separated paths relative to Root.
type FileProvider struct {
	Root string
}

func (p FileProvider) path(u string) string {
	if filepath.IsAbs(u) || p.Root == "" {
		return filepath.FromSlash(u)
	}
	return filepath.Join(p.Root, filepath.FromSlash(u))
}

// LoadMetadata reads the file at u.
func (p FileProvider) LoadMetadata(ctx context.Context, u string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path(u))
	if err != nil {
		return nil, fmt.Errorf("tilegrid: load %s: %w", u, err)
	}
	return data, nil
}

// LoadImage reads and decodes the file at u.
func (p FileProvider) LoadImage(ctx context.Context, u string) (image.Image, error) {
	data, err := p.LoadMetadata(ctx, u)
	if err != nil {
		return nil, err
	}
	img, _, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u, err)
	}
	return img, nil
}

// DefaultMaxResponseBytes caps an HTTPProvider response body when MaxBytes is
// zero.
const DefaultMaxResponseBytes = 64 << 20

// HTTPProvider fetches images and metadata over HTTP. Relative URLs resolve
// against BaseURL. Bodies longer than MaxBytes fail with ErrResponseTooLarge.
type HTTPProvider struct {
	Client   *http.Client
	BaseURL  string
	MaxBytes int64
}

func (p HTTPProvider) resolve(u string) (string, error) {
	if p.BaseURL == "" {
		return u, nil
	}
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("tilegrid: base url: %w", err)
	}
	ref, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("tilegrid: url %q: %w", u, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// LoadMetadata fetches u and returns the response body.
func (p HTTPProvider) LoadMetadata(ctx context.Context, u string) ([]byte, error) {
	target, err := p.resolve(u)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("tilegrid: fetch %s: %w", target, err)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tilegrid: fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tilegrid: fetch %s: %s", target, resp.Status)
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("tilegrid: fetch %s: %w", target, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrResponseTooLarge, target, limit)
	}
	return data, nil
}

// LoadImage fetches and decodes u.
func (p HTTPProvider) LoadImage(ctx context.Context, u string) (image.Image, error) {
	data, err := p.LoadMetadata(ctx, u)
	if err != nil {
		return nil, err
	}
	img, _, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u, err)
	}
	return img, nil
}

// LoadImages resolves every URL through p. It returns the images that loaded
// together with the joined errors of those that did not.
func LoadImages(ctx context.Context, p ImageProvider, urls []string) (ImageTable, error) {
	table := make(ImageTable, len(urls))
	var errs []error
	for _, u := range urls {
		if _, ok := table[u]; ok {
			continue
		}
		img, err := p.LoadImage(ctx, u)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		table[u] = img
	}
	return table, errors.Join(errs...)
}
