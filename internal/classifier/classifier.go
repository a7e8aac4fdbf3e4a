// Package classifier provides the optional label-based colour override.
//
// An image classifier (a cloud model or an external plugin) labels the photo;
// the first label that names a colour from the reference table decides the
// garment colour. The override is best-effort: when no classifier is
// configured, when it fails to start or errors, or when no label mentions a
// colour, the caller falls back to pixel analysis.
package classifier

import (
	"context"
	"errors"
	"image"
	"math"

	"github.com/jmylchreest/shirtsort/internal/colour"
)

var (
	// ErrUnavailable means no classifier is configured or it failed to start.
	ErrUnavailable = errors.New("classifier unavailable")

	// ErrInconclusive means the classifier ran but no label named a colour.
	ErrInconclusive = errors.New("no colour found in classifier labels")
)

// confidenceWindow is how many top-ranked labels contribute to confidence.
const confidenceWindow = 3

// Classification is one (label, score) pair, in the classifier's rank order.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier labels an image.
type Classifier interface {
	Classify(ctx context.Context, img image.Image) ([]Classification, error)
}

// Result is a colour derived from classifier labels.
type Result struct {
	Color      colour.RGB `json:"color" yaml:"color"`
	Name       string     `json:"name" yaml:"name"`
	Confidence float64    `json:"confidence" yaml:"confidence"`

	// Label is the classification that named the colour.
	Label string `json:"label" yaml:"label"`
}

// FromLabels scans classifications in rank order and returns the colour of
// the first label containing a known colour token. Confidence is the highest
// score among the top three classifications, clamped to [0, 1].
func FromLabels(cs []Classification) (Result, bool) {
	for _, c := range cs {
		nc, ok := colour.MatchLabel(c.Label)
		if !ok {
			continue
		}
		return Result{
			Color:      nc.RGB,
			Name:       nc.Name,
			Confidence: topScore(cs),
			Label:      c.Label,
		}, true
	}
	return Result{}, false
}

func topScore(cs []Classification) float64 {
	best := 0.0
	for i, c := range cs {
		if i == confidenceWindow {
			break
		}
		if !math.IsNaN(c.Score) && c.Score > best {
			best = c.Score
		}
	}
	return math.Min(best, 1)
}
