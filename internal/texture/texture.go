// Package texture decodes texture images referenced by model materials.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for texture files of unknown type.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// Decode decodes image data. The extension (with or without dot) selects the
// decoder: TGA has no magic number, so sniffing is not used.
func Decode(data []byte, ext string) (image.Image, error) {
	r := bytes.NewReader(data)

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "tga":
		img, err := tga.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decoding TGA: %w", err)
		}
		return img, nil
	case "bmp":
		img, err := bmp.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decoding BMP: %w", err)
		}
		return img, nil
	case "png":
		img, err := png.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decoding PNG: %w", err)
		}
		return img, nil
	case "jpg", "jpeg":
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decoding JPEG: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads and decodes an image file.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Cache decodes each texture path once.
type Cache struct {
	mu     sync.Mutex
	images map[string]image.Image
	load   func(string) (image.Image, error)
}

// NewCache creates a cache backed by Load.
func NewCache() *Cache {
	return NewCacheWithLoader(Load)
}

// NewCacheWithLoader creates a cache backed by a custom loader.
func NewCacheWithLoader(load func(string) (image.Image, error)) *Cache {
	return &Cache{images: make(map[string]image.Image), load: load}
}

// Get returns the decoded image for path, decoding it on first use.
// Failed loads are not cached.
func (c *Cache) Get(path string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.images[path]; ok {
		return img, nil
	}

	img, err := c.load(path)
	if err != nil {
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}
