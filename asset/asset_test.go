package asset

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

func TestConvertDimensions(t *testing.T) {
	s := Convert(solid(40, 40, color.White), 10)
	if s.Width != 10 || s.Height != 5 {
		t.Errorf("square image at width 10: got %dx%d, want 10x5", s.Width, s.Height)
	}

	wide := Convert(solid(100, 10, color.White), 10)
	if wide.Height != 1 {
		t.Errorf("wide image height = %d, want 1", wide.Height)
	}

	empty := Convert(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10)
	if empty.Width != 0 || len(empty.Cells) != 0 {
		t.Errorf("empty image produced %dx%d", empty.Width, empty.Height)
	}
}

func TestConvertSolidUsesFullBlock(t *testing.T) {
	s := Convert(solid(8, 8, color.RGBA{R: 255, A: 255}), 4)
	want := tcell.NewRGBColor(255, 0, 0)
	for i, c := range s.Cells {
		if c.Rune != '█' {
			t.Fatalf("cell %d rune %q, want full block", i, c.Rune)
		}
		if c.Fg != want {
			t.Fatalf("cell %d fg %v, want %v", i, c.Fg, want)
		}
	}
}

func TestConvertTransparency(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	// Left half opaque blue, right half transparent
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}

	s := Convert(img, 2)
	if s.Width != 2 || s.Height != 1 {
		t.Fatalf("got %dx%d", s.Width, s.Height)
	}
	if c := s.At(0, 0); c.Rune != '█' {
		t.Errorf("opaque cell rune %q", c.Rune)
	}
	if c := s.At(1, 0); c.Rune != 0 {
		t.Errorf("transparent cell rune %q, want none", c.Rune)
	}
}

func TestConvertSplitsTwoColours(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.White)
	img.Set(0, 1, color.Black)
	img.Set(1, 1, color.Black)

	c := Convert(img, 1).At(0, 0)
	if !c.HasBg {
		t.Fatal("two-colour cell has no background")
	}
	// Either half may be chosen as foreground, the pair must reproduce the split
	upper, lower := '▀', '▄'
	switch c.Rune {
	case upper:
		if c.Fg != tcell.NewRGBColor(255, 255, 255) || c.Bg != tcell.NewRGBColor(0, 0, 0) {
			t.Errorf("upper half colours fg=%v bg=%v", c.Fg, c.Bg)
		}
	case lower:
		if c.Fg != tcell.NewRGBColor(0, 0, 0) || c.Bg != tcell.NewRGBColor(255, 255, 255) {
			t.Errorf("lower half colours fg=%v bg=%v", c.Fg, c.Bg)
		}
	default:
		t.Errorf("rune %q is not a horizontal half", c.Rune)
	}
}

func TestImageSpriteCache(t *testing.T) {
	im := NewImage("mem", solid(16, 16, color.White))
	a := im.Sprite(6)
	b := im.Sprite(6)
	if a != b {
		t.Error("same width converted twice")
	}
	if im.Sprite(8) == a {
		t.Error("different width returned cached sprite")
	}
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "Mi.png", solid(8, 8, color.White))
	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "Bun.png")

	paths := []string{good, missing, corrupt, ""}
	results := LoadAll(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("got %d results for %d paths", len(results), len(paths))
	}
	for i, r := range results {
		if r.Index != i || r.Path != paths[i] {
			t.Errorf("result %d out of order: %+v", i, r)
		}
	}

	if results[0].Err != nil || results[0].Image == nil {
		t.Errorf("good image failed: %v", results[0].Err)
	}
	if results[0].Image.Bounds().Dx() != 8 {
		t.Errorf("decoded width %d", results[0].Image.Bounds().Dx())
	}
	if !errors.Is(results[1].Err, os.ErrNotExist) {
		t.Errorf("missing image error = %v", results[1].Err)
	}
	if results[2].Err == nil {
		t.Error("corrupt image decoded")
	}
	if !errors.Is(results[3].Err, ErrNoImage) {
		t.Errorf("empty path error = %v", results[3].Err)
	}
}

func TestStreamClosesAfterAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"} {
		paths = append(paths, writePNG(t, dir, name, solid(4, 4, color.Black)))
	}

	seen := make(map[int]bool)
	for r := range Stream(context.Background(), paths) {
		if r.Err != nil {
			t.Errorf("%s: %v", r.Path, r.Err)
		}
		seen[r.Index] = true
	}
	if len(seen) != len(paths) {
		t.Errorf("received %d results, want %d", len(seen), len(paths))
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := LoadAll(ctx, []string{filepath.Join(t.TempDir(), "x.png")})
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("cancelled load error = %v", results[0].Err)
	}
}
