// Package photo defines the records that flow through the analysis pipeline:
// photos, their colour analysis and the groups they are sorted into.
package photo

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/shirtsort/internal/colour"
)

// Namespace scopes the deterministic photo and group ids.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jmylchreest/shirtsort"))

// Source is anything a photo can be read from.
type Source interface {
	// Name is the display name, usually the base file name.
	Name() string

	// Open returns a fresh reader over the encoded image.
	Open() (io.ReadCloser, error)
}

// ColorAnalysis is the single colour verdict for one photo.
type ColorAnalysis struct {
	DominantColor colour.RGB `json:"dominant_color" yaml:"dominant_color"`
	ColorName     string     `json:"color_name" yaml:"color_name"`
	Confidence    float64    `json:"confidence" yaml:"confidence"`
	IsOverride    bool       `json:"is_override" yaml:"is_override"`
}

// Hex is shorthand for a.DominantColor.Hex().
func (a ColorAnalysis) Hex() string {
	return a.DominantColor.Hex()
}

// Origin describes which path produced the analysis.
func (a ColorAnalysis) Origin() string {
	if a.IsOverride {
		return "classifier"
	}
	return "pixels"
}

// DefaultAnalysis is returned when every detection path fails.
func DefaultAnalysis() ColorAnalysis {
	return ColorAnalysis{
		DominantColor: colour.Neutral,
		ColorName:     colour.NameOf(colour.Neutral),
		Confidence:    0.5,
		IsOverride:    false,
	}
}

// Photo is one input image and, once analysed, its colour verdict.
type Photo struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Source     Source    `json:"-" yaml:"-"`
	Index      int       `json:"index" yaml:"index"`
	CapturedAt time.Time `json:"captured_at,omitzero" yaml:"captured_at,omitempty"`

	Analysis *ColorAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	GroupID  string         `json:"group_id,omitempty" yaml:"group_id,omitempty"`
}

// New creates a photo for src at input position index.
// The id is derived from the name and position, so repeated runs over the
// same inputs produce the same ids.
func New(src Source, index int) *Photo {
	name := src.Name()
	return &Photo{
		ID:     uuid.NewSHA1(Namespace, fmt.Appendf(nil, "photo/%d/%s", index, name)).String(),
		Name:   name,
		Source: src,
		Index:  index,
	}
}

// FromSources wraps sources as photos, keeping input order.
func FromSources(sources []Source) []*Photo {
	photos := make([]*Photo, len(sources))
	for i, src := range sources {
		photos[i] = New(src, i)
	}
	return photos
}

// Annotate attaches an analysis to the photo, replacing any previous one.
func (p *Photo) Annotate(a ColorAnalysis) {
	p.Analysis = &a
}

// Ext returns the lower-case file extension of the photo name.
func (p *Photo) Ext() string {
	return strings.ToLower(filepath.Ext(p.Name))
}
