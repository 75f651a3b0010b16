package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/nfnt/resize"
)

// ThumbnailWidth is the width, in pixels, thumbnails are resized to.
const ThumbnailWidth = 120

const maxImageBytes = 10 << 20

var safeName = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Thumbnailer downloads recipe images and stores small copies on disk.
type Thumbnailer struct {
	httpClient *http.Client
	dir        string
	urlPrefix  string
}

// NewThumbnailer stores thumbnails under dir and serves them below urlPrefix.
func NewThumbnailer(dir, urlPrefix string) *Thumbnailer {
	return &Thumbnailer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dir:        dir,
		urlPrefix:  urlPrefix,
	}
}

// Save downloads imageURL and stores a resized JPEG named after id. It returns
// the URL path the thumbnail is served at.
func (t *Thumbnailer) Save(ctx context.Context, id, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read image err: %w", err)
	}

	return t.saveThumbnail(imageData, id)
}

func (t *Thumbnailer) saveThumbnail(imageData []byte, id string) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(ThumbnailWidth, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	name := safeName.ReplaceAllString(id, "_") + ".jpg"
	path := filepath.Join(t.dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 85}); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return t.urlPrefix + "/" + name, nil
}
