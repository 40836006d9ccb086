// Package asset loads slice artwork and converts it into terminal sprites.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrentLoads bounds decoder goroutines
const MaxConcurrentLoads = 4

// ErrNoImage marks a slice configured without artwork
var ErrNoImage = errors.New("no image configured")

// Image is a decoded picture with sprites cached per width
// Not safe for concurrent use once handed to the render loop
type Image struct {
	ID     string
	src    image.Image
	sprite map[int]*Sprite
}

// NewImage wraps a decoded image
func NewImage(id string, src image.Image) *Image {
	return &Image{ID: id, src: src, sprite: make(map[int]*Sprite)}
}

// Sprite returns the image converted at the given column width
func (im *Image) Sprite(width int) *Sprite {
	if s, ok := im.sprite[width]; ok {
		return s
	}
	s := Convert(im.src, width)
	im.sprite[width] = s
	return s
}

// Bounds returns the source pixel bounds
func (im *Image) Bounds() image.Rectangle {
	return im.src.Bounds()
}

// Result is the outcome for one requested image
type Result struct {
	Index int
	Path  string
	Image *Image
	Err   error
}

// Load decodes a single image file
func Load(ctx context.Context, path string) (*Image, error) {
	if path == "" {
		return nil, ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return NewImage(path, img), nil
}

// Stream loads all paths concurrently and sends one Result per path as each resolves
// The channel closes once every path has succeeded or failed
func Stream(ctx context.Context, paths []string) <-chan Result {
	out := make(chan Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLoads)

	go func() {
		defer close(out)
		for i, path := range paths {
			g.Go(func() error {
				img, err := Load(gctx, path)
				out <- Result{Index: i, Path: path, Image: img, Err: err}
				// Per-item failures are reported in the result, never through the group
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

// LoadAll blocks until every path resolves and returns results in path order
func LoadAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	for r := range Stream(ctx, paths) {
		results[r.Index] = r
	}
	return results
}
