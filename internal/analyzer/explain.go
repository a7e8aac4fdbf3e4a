package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmylchreest/shirtsort/internal/classifier"
	"github.com/jmylchreest/shirtsort/internal/colour"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/regions"
)

// RegionReport describes the extraction over one region.
type RegionReport struct {
	Region  string              `json:"region" yaml:"region"`
	Scanned int                 `json:"scanned" yaml:"scanned"`
	Kept    int                 `json:"kept" yaml:"kept"`
	Result  colour.RegionResult `json:"result" yaml:"result"`
	Chosen  bool                `json:"chosen" yaml:"chosen"`
}

// Report is the full diagnostic for one photo.
type Report struct {
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`

	Regions  []RegionReport `json:"regions" yaml:"regions"`
	Fallback *RegionReport  `json:"fallback,omitempty" yaml:"fallback,omitempty"`

	Classifier      *classifier.Result `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	ClassifierError string             `json:"classifier_error,omitempty" yaml:"classifier_error,omitempty"`

	Palette []colour.PaletteEntry `json:"palette,omitempty" yaml:"palette,omitempty"`

	Analysis photo.ColorAnalysis `json:"analysis" yaml:"analysis"`
}

// Explain analyses src like Analyze and reports every intermediate result.
// paletteSize > 0 adds a k-means palette of the fallback (torso) area.
// Unlike Analyze it returns an error when src cannot be decoded.
func (a *Analyzer) Explain(ctx context.Context, src photo.Source, paletteSize int) (*Report, error) {
	img, err := imgpkg.LoadContext(ctx, src, a.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	b := img.Bounds()
	rep := &Report{Name: src.Name(), Width: b.Dx(), Height: b.Dy()}

	res, err := a.override.Detect(ctx, img)
	switch {
	case err == nil:
		rep.Classifier = &res
	case errors.Is(err, ErrClassifierUnavailable):
	default:
		rep.ClassifierError = err.Error()
	}

	norm := a.sampler.Normalize(img)
	best, reports, fallback := a.pixelPath(norm)
	rep.Regions = reports
	rep.Fallback = fallback

	switch {
	case rep.Classifier != nil:
		rep.Analysis = photo.ColorAnalysis{
			DominantColor: res.Color,
			ColorName:     res.Name,
			Confidence:    res.Confidence,
			IsOverride:    true,
		}
	case best.Eligible:
		rep.Analysis = photo.ColorAnalysis{
			DominantColor: best.Color,
			ColorName:     colour.NameOf(best.Color),
			Confidence:    best.Confidence,
		}
	default:
		rep.Analysis = photo.DefaultAnalysis()
	}

	if paletteSize > 0 {
		torso := norm.SubImage(regions.FallbackRegion().Rect(norm.Bounds()))
		palette, err := colour.ProminentPalette(torso, paletteSize)
		if err != nil {
			a.logger.Debug("palette unavailable", "photo", rep.Name, "error", err)
		} else {
			rep.Palette = palette
		}
	}

	return rep, nil
}
