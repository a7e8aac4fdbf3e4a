package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/jmylchreest/shirtsort/internal/classifier"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
	"github.com/jmylchreest/shirtsort/internal/photo"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
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

func source(t *testing.T, name string, c color.Color) photo.Source {
	t.Helper()
	return imgpkg.BytesSource{Filename: name, Data: solidPNG(t, 120, 160, c)}
}

type panicSource struct{}

func (panicSource) Name() string                 { return "panic.png" }
func (panicSource) Open() (io.ReadCloser, error) { panic("reader exploded") }

type labeller struct {
	labels []classifier.Classification
	err    error
}

func (l labeller) Classify(context.Context, image.Image) ([]classifier.Classification, error) {
	return l.labels, l.err
}

func TestAnalyzePixelPath(t *testing.T) {
	tests := []struct {
		name     string
		c        color.Color
		wantName string
		wantHex  string
		wantConf float64
	}{
		{"navy shirt", color.NRGBA{0, 0, 128, 255}, "Navy", "#000080", 0.95},
		{"blue shirt", color.NRGBA{0, 0, 255, 255}, "Blue", "#0000ff", 0.95},
		{"red shirt", color.NRGBA{255, 0, 0, 255}, "Red", "#ff0000", 0.95},
		{"green shirt", color.NRGBA{0, 128, 0, 255}, "Green", "#008000", 0.95},
		{"white shirt is filtered", color.NRGBA{255, 255, 255, 255}, "Gray", "#808080", 0.5},
		{"black shirt is filtered", color.NRGBA{0, 0, 0, 255}, "Gray", "#808080", 0.5},
		{"transparent", color.NRGBA{0, 0, 255, 0}, "Gray", "#808080", 0.5},
		{"skin only", color.NRGBA{220, 180, 140, 255}, "Gray", "#808080", 0.5},
	}

	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(context.Background(), source(t, tt.name+".png", tt.c))
			if got.ColorName != tt.wantName {
				t.Errorf("Analyze() name = %q, want %q", got.ColorName, tt.wantName)
			}
			if got.Hex() != tt.wantHex {
				t.Errorf("Analyze() hex = %s, want %s", got.Hex(), tt.wantHex)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Analyze() confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
			if got.IsOverride {
				t.Error("Analyze() IsOverride = true on pixel path")
			}
		})
	}
}

func TestAnalyzeNeverFails(t *testing.T) {
	sources := []photo.Source{
		imgpkg.BytesSource{Filename: "garbage.jpg", Data: []byte("definitely not a jpeg")},
		imgpkg.BytesSource{Filename: "empty.png"},
		imgpkg.FileSource{Path: "/nonexistent/shirt.png"},
		panicSource{},
	}

	a := New()
	for _, src := range sources {
		t.Run(src.Name(), func(t *testing.T) {
			got := a.Analyze(context.Background(), src)
			if got != photo.DefaultAnalysis() {
				t.Errorf("Analyze() = %+v, want default", got)
			}
		})
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := New().Analyze(ctx, source(t, "red.png", color.NRGBA{255, 0, 0, 255}))
	if got != photo.DefaultAnalysis() {
		t.Errorf("Analyze() with cancelled context = %+v, want default", got)
	}
}

func TestAnalyzeOverride(t *testing.T) {
	red := source(t, "red.png", color.NRGBA{255, 0, 0, 255})

	t.Run("label wins over pixels", func(t *testing.T) {
		o := classifier.Static(labeller{labels: []classifier.Classification{
			{Label: "jersey", Score: 0.4},
			{Label: "navy blue sweatshirt", Score: 0.85},
		}})
		got := New(WithOverride(o)).Analyze(context.Background(), red)
		if !got.IsOverride || got.ColorName != "Blue" || got.Confidence != 0.85 {
			t.Errorf("Analyze() = %+v, want Blue override at 0.85", got)
		}
		if got.Origin() != "classifier" {
			t.Errorf("Origin() = %q, want classifier", got.Origin())
		}
	})

	t.Run("inconclusive falls back to pixels", func(t *testing.T) {
		o := classifier.Static(labeller{labels: []classifier.Classification{{Label: "jersey", Score: 0.9}}})
		got := New(WithOverride(o)).Analyze(context.Background(), red)
		if got.IsOverride || got.ColorName != "Red" {
			t.Errorf("Analyze() = %+v, want Red from pixels", got)
		}
	})

	t.Run("classifier error falls back to pixels", func(t *testing.T) {
		o := classifier.Static(labeller{err: errors.New("rate limited")})
		got := New(WithOverride(o)).Analyze(context.Background(), red)
		if got.IsOverride || got.ColorName != "Red" {
			t.Errorf("Analyze() = %+v, want Red from pixels", got)
		}
	})

	t.Run("failed start falls back to pixels", func(t *testing.T) {
		o := classifier.NewAvailable(func(context.Context) (classifier.Classifier, error) {
			return nil, errors.New("model missing")
		})
		got := New(WithOverride(o)).Analyze(context.Background(), red)
		if got.IsOverride || got.ColorName != "Red" {
			t.Errorf("Analyze() = %+v, want Red from pixels", got)
		}
	})
}

func TestAnalyzeConfidenceBounds(t *testing.T) {
	a := New()
	for i := 0; i < 256; i += 17 {
		c := color.NRGBA{uint8(i), uint8(255 - i), uint8(i / 2), 255}
		got := a.Analyze(context.Background(), source(t, fmt.Sprintf("c%d.png", i), c))
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Analyze(%v) confidence = %v, out of [0,1]", c, got.Confidence)
		}
		if got.ColorName == "" {
			t.Errorf("Analyze(%v) has no colour name", c)
		}
	}
}

func TestAnalyzeAllOrder(t *testing.T) {
	palette := []color.NRGBA{
		{255, 0, 0, 255},
		{0, 0, 255, 255},
		{0, 128, 0, 255},
		{0, 0, 128, 255},
	}
	want := []string{"Red", "Blue", "Green", "Navy"}

	var sources []photo.Source
	for i := 0; i < 12; i++ {
		sources = append(sources, source(t, fmt.Sprintf("IMG_%02d.png", i), palette[i%len(palette)]))
	}

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var progress []string
			var dones []int
			a := New(WithWorkers(workers), WithProgress(func(done, total int, name string, _ photo.ColorAnalysis) {
				if total != len(sources) {
					t.Errorf("progress total = %d, want %d", total, len(sources))
				}
				dones = append(dones, done)
				progress = append(progress, name)
			}))

			got := a.AnalyzeAll(context.Background(), sources)
			if len(got) != len(sources) {
				t.Fatalf("AnalyzeAll() returned %d results, want %d", len(got), len(sources))
			}
			for i, res := range got {
				if res.ColorName != want[i%len(want)] {
					t.Errorf("result[%d] = %s, want %s", i, res.ColorName, want[i%len(want)])
				}
			}
			for i := range sources {
				if dones[i] != i+1 || progress[i] != sources[i].Name() {
					t.Fatalf("progress out of order: %v %v", dones, progress)
				}
			}

			again := a.AnalyzeAll(context.Background(), sources)
			for i := range got {
				if got[i] != again[i] {
					t.Errorf("AnalyzeAll() not idempotent at %d: %+v vs %+v", i, got[i], again[i])
				}
			}
		})
	}

	if got := New().AnalyzeAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("AnalyzeAll(nil) = %v, want empty", got)
	}
}

func TestAnalyzePhotos(t *testing.T) {
	photos := photo.FromSources([]photo.Source{
		source(t, "a.png", color.NRGBA{255, 0, 0, 255}),
		imgpkg.BytesSource{Filename: "broken.png", Data: []byte("x")},
	})

	New().AnalyzePhotos(context.Background(), photos)

	if photos[0].Analysis == nil || photos[0].Analysis.ColorName != "Red" {
		t.Errorf("photos[0].Analysis = %+v, want Red", photos[0].Analysis)
	}
	if photos[1].Analysis == nil || *photos[1].Analysis != photo.DefaultAnalysis() {
		t.Errorf("photos[1].Analysis = %+v, want default", photos[1].Analysis)
	}
}

func TestExplain(t *testing.T) {
	a := New()

	rep, err := a.Explain(context.Background(), source(t, "navy.png", color.NRGBA{0, 0, 128, 255}), 3)
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if rep.Width != 120 || rep.Height != 160 {
		t.Errorf("Explain() size = %dx%d, want 120x160", rep.Width, rep.Height)
	}
	if len(rep.Regions) != 3 {
		t.Fatalf("Explain() regions = %d, want 3", len(rep.Regions))
	}
	for _, r := range rep.Regions {
		if r.Kept == 0 || r.Kept != r.Scanned {
			t.Errorf("region %s kept %d of %d, want all", r.Region, r.Kept, r.Scanned)
		}
		if r.Chosen {
			t.Errorf("region %s chosen, want fallback for tied regions", r.Region)
		}
	}
	if rep.Fallback == nil || !rep.Fallback.Chosen {
		t.Errorf("Explain() fallback = %+v, want chosen fallback", rep.Fallback)
	}
	if rep.Analysis.ColorName != "Navy" {
		t.Errorf("Explain() analysis = %+v, want Navy", rep.Analysis)
	}
	for _, e := range rep.Palette {
		if e.Weight < 0 || e.Weight > 1 {
			t.Errorf("palette weight %v out of range", e.Weight)
		}
	}
	if rep.Classifier != nil || rep.ClassifierError != "" {
		t.Errorf("Explain() classifier = %+v %q, want none", rep.Classifier, rep.ClassifierError)
	}

	if _, err := a.Explain(context.Background(), imgpkg.BytesSource{Filename: "bad.png"}, 0); !errors.Is(err, ErrDecodeFailure) {
		t.Errorf("Explain() error = %v, want ErrDecodeFailure", err)
	}
}

func TestExplainClassifier(t *testing.T) {
	o := classifier.Static(labeller{labels: []classifier.Classification{{Label: "sweatshirt", Score: 0.5}}})
	rep, err := New(WithOverride(o)).Explain(context.Background(), source(t, "red.png", color.NRGBA{255, 0, 0, 255}), 0)
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if rep.ClassifierError == "" {
		t.Error("Explain() expected inconclusive classifier error")
	}
	if rep.Analysis.ColorName != "Red" || rep.Palette != nil {
		t.Errorf("Explain() = %+v", rep)
	}
}
