// Package regions samples pixels from fixed upper-torso areas of a photo.
//
// Images are first scaled to a square working copy so that region fractions
// map to the same pixel counts regardless of the input resolution. Pixels are
// then filtered for transparency, extreme brightness and skin tones before
// being handed to the dominant colour extractor.
package regions

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/shirtsort/internal/colour"
)

// DefaultSize is the edge length of the normalised working copy.
const DefaultSize = 200

// Region is a rectangle expressed as fractions of the image width and height.
type Region struct {
	// Name identifies the region in diagnostics.
	Name string

	// X and Y are the top-left corner as fractions of width and height.
	X, Y float64

	// W and H are the extent as fractions of width and height.
	W, H float64
}

// Rect converts the fractional region to pixel coordinates within bounds.
// Offsets are truncated and the result is clipped to bounds.
func (r Region) Rect(bounds image.Rectangle) image.Rectangle {
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	x0 := bounds.Min.X + int(width*r.X)
	y0 := bounds.Min.Y + int(height*r.Y)
	x1 := x0 + int(width*r.W)
	y1 := y0 + int(height*r.H)

	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}

// Validate reports whether the region lies within the unit square.
func (r Region) Validate() error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("region %q has empty extent", r.Name)
	}
	if r.X < 0 || r.Y < 0 || r.X+r.W > 1 || r.Y+r.H > 1 {
		return fmt.Errorf("region %q exceeds image bounds", r.Name)
	}
	return nil
}

// TorsoRegions returns the overlapping regions where a shirt usually sits in
// a portrait or half-body photo.
func TorsoRegions() []Region {
	return []Region{
		{Name: "centre-high", X: 0.25, Y: 0.20, W: 0.50, H: 0.35},
		{Name: "centre-wide", X: 0.15, Y: 0.25, W: 0.70, H: 0.40},
		{Name: "chest-narrow", X: 0.35, Y: 0.30, W: 0.30, H: 0.25},
	}
}

// FallbackRegion returns the catch-all centred box sampled when the torso
// regions do not produce a clear winner.
func FallbackRegion() Region {
	return Region{Name: "fallback", X: 0.25, Y: 0.25, W: 0.50, H: 0.40}
}

// Samples holds the filtered pixels of one region.
type Samples struct {
	Region Region

	// Pixels are the pixels that passed Keep, in row-major order.
	Pixels []colour.RGB

	// Scanned is the number of pixels inspected before filtering.
	Scanned int
}

// Sampler extracts filtered pixel samples from images.
type Sampler struct {
	// Size is the edge length of the square working copy.
	// Default: 200.
	Size int
}

// NewSampler creates a new region sampler with default settings.
func NewSampler() *Sampler {
	return &Sampler{Size: DefaultSize}
}

func (s *Sampler) size() int {
	if s == nil || s.Size <= 0 {
		return DefaultSize
	}
	return s.Size
}

// Normalize returns a Size x Size copy of img. The source is never modified.
// The copy is non-premultiplied so alpha can be tested on stored values.
func (s *Sampler) Normalize(img image.Image) *image.NRGBA {
	n := s.size()
	dst := image.NewNRGBA(image.Rect(0, 0, n, n))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Sample normalises img once and samples every region from the same copy.
func (s *Sampler) Sample(img image.Image, regions []Region) []Samples {
	norm := s.Normalize(img)
	out := make([]Samples, 0, len(regions))
	for _, r := range regions {
		out = append(out, SampleRegion(norm, r))
	}
	return out
}

// SampleRegion collects the pixels of an already normalised image that fall
// inside r and pass Keep.
func SampleRegion(norm *image.NRGBA, r Region) Samples {
	rect := r.Rect(norm.Bounds())
	samples := Samples{
		Region: r,
		Pixels: make([]colour.RGB, 0, rect.Dx()*rect.Dy()),
	}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := norm.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			p := norm.Pix[row : row+4 : row+4]
			row += 4
			samples.Scanned++
			if !Keep(p[0], p[1], p[2], p[3]) {
				continue
			}
			samples.Pixels = append(samples.Pixels, colour.RGB{R: p[0], G: p[1], B: p[2]})
		}
	}

	return samples
}
