package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/security"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return p
}

func TestDecode(t *testing.T) {
	data := encodePNG(t, 8, 4, color.RGBA{R: 255, A: 255})

	img, format, err := Decode(bytes.NewReader(data), DefaultMaxBytes)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if format != "png" {
		t.Errorf("Decode() format = %q, want png", format)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("Decode() bounds = %v, want 8x4", img.Bounds())
	}

	if _, _, err := Decode(bytes.NewReader([]byte("not an image")), DefaultMaxBytes); err == nil {
		t.Error("Decode() of garbage expected error")
	}

	_, _, err = Decode(bytes.NewReader(data), 16)
	if err == nil {
		t.Fatal("Decode() over size limit expected error")
	}
	if !errors.Is(err, security.ErrSizeLimit) {
		t.Logf("Decode() over limit returned %v", err)
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, format, err := DecodeConfig(encodePNG(t, 3, 5, color.Black))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if format != "png" || cfg.Width != 3 || cfg.Height != 5 {
		t.Errorf("DecodeConfig() = %s %dx%d, want png 3x5", format, cfg.Width, cfg.Height)
	}
}

func TestLoad(t *testing.T) {
	src := BytesSource{Filename: "red.png", Data: encodePNG(t, 2, 2, color.RGBA{R: 255, A: 255})}
	img, err := Load(src, 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("Load() width = %d, want 2", img.Bounds().Dx())
	}

	if _, err := Load(FileSource{Path: filepath.Join(t.TempDir(), "missing.png")}, 0); err == nil {
		t.Error("Load() of missing file expected error")
	}
}

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":     true,
		"A.JPEG":    true,
		"b.png":     true,
		"c.webp":    true,
		"d.tiff":    true,
		"e.bmp":     true,
		"notes.txt": false,
		"noext":     false,
	}
	for name, want := range tests {
		if got := IsImageFile(name); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	data := encodePNG(t, 1, 1, color.White)
	b := writeFile(t, dir, "b.png", data)
	a := writeFile(t, dir, "a.jpg", data)
	writeFile(t, dir, "notes.txt", []byte("x"))
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandPaths([]string{b, dir, "https://example.com/c.png"})
	if err != nil {
		t.Fatalf("ExpandPaths() error = %v", err)
	}
	want := []string{b, a, "https://example.com/c.png"}
	if len(got) != len(want) {
		t.Fatalf("ExpandPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExpandPaths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing.png")}); err == nil {
		t.Error("ExpandPaths() with missing file expected error")
	}
	if _, err := ExpandPaths([]string{filepath.Join(dir, "sub")}); !errors.Is(err, ErrNoImages) {
		t.Errorf("ExpandPaths() on empty dir error = %v, want ErrNoImages", err)
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("https://example.com/photos/shirt.jpg?w=100", SourceOptions{})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if _, ok := src.(URLSource); !ok {
		t.Errorf("NewSource() = %T, want URLSource", src)
	}
	if src.Name() != "shirt.jpg" {
		t.Errorf("Name() = %q, want shirt.jpg", src.Name())
	}

	if _, err := NewSource("http://127.0.0.1/a.png", SourceOptions{}); err == nil {
		t.Error("NewSource() with loopback URL expected error")
	}

	src, err = NewSource("/photos/IMG_1.jpg", SourceOptions{})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if fs, ok := src.(FileSource); !ok || fs.Name() != "IMG_1.jpg" {
		t.Errorf("NewSource() = %#v, want FileSource IMG_1.jpg", src)
	}
}

func TestArrange(t *testing.T) {
	dir := t.TempDir()
	data := encodePNG(t, 1, 1, color.White)
	paths := []string{
		writeFile(t, dir, "c.png", data),
		writeFile(t, dir, "a.png", data),
		writeFile(t, dir, "b.png", data),
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// Capture order: b, c, a.
	mtimes := []time.Time{base.Add(time.Hour), base.Add(2 * time.Hour), base}
	for i, p := range paths {
		if err := os.Chtimes(p, mtimes[i], mtimes[i]); err != nil {
			t.Fatal(err)
		}
	}

	var sources []photo.Source
	for _, p := range paths {
		sources = append(sources, FileSource{Path: p})
	}
	sources = append(sources, BytesSource{Filename: "0-undated.png", Data: data})

	names := func(a []Arranged) []string {
		out := make([]string, len(a))
		for i := range a {
			out[i] = a[i].Source.Name()
		}
		return out
	}

	tests := []struct {
		order Order
		want  []string
	}{
		{OrderInput, []string{"c.png", "a.png", "b.png", "0-undated.png"}},
		{OrderName, []string{"0-undated.png", "a.png", "b.png", "c.png"}},
		{OrderCapture, []string{"b.png", "c.png", "a.png", "0-undated.png"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := names(Arrange(sources, tt.order))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Arrange(%s) = %v, want %v", tt.order, got, tt.want)
				}
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	for _, s := range []string{"input", "NAME", " capture ", ""} {
		if _, err := ParseOrder(s); err != nil {
			t.Errorf("ParseOrder(%q) error = %v", s, err)
		}
	}
	if _, err := ParseOrder("random"); err == nil {
		t.Error("ParseOrder(random) expected error")
	}
}
