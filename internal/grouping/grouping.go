// Package grouping clusters analysed photos by garment colour.
package grouping

import (
	"cmp"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/shirtsort/internal/colour"
	"github.com/jmylchreest/shirtsort/internal/photo"
)

// DefaultThreshold is the colour distance below which a photo joins a group.
const DefaultThreshold = 40.0

// Engine performs greedy single-pass grouping.
type Engine struct {
	// Threshold is the exclusive distance bound for joining a group.
	Threshold float64

	Logger hclog.Logger
}

// New returns an engine with the default threshold.
func New() *Engine {
	return &Engine{Threshold: DefaultThreshold, Logger: hclog.NewNullLogger()}
}

func (e *Engine) threshold() float64 {
	if e == nil || e.Threshold <= 0 {
		return DefaultThreshold
	}
	return e.Threshold
}

// Group walks photos in order. Each analysed photo joins the first group,
// in creation order, whose representative colour is closer than the
// threshold; otherwise it founds a new group. Photos without an analysis are
// skipped. The result is sorted by size, largest first, with ties kept in
// creation order.
func (e *Engine) Group(photos []*photo.Photo) []*photo.Group {
	limit := e.threshold()
	var groups []*photo.Group

	for _, p := range photos {
		if p == nil || p.Analysis == nil {
			continue
		}

		joined := false
		for _, g := range groups {
			if colour.Distance(p.Analysis.DominantColor, g.RepresentativeColor) < limit {
				g.Add(p)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, photo.NewGroup(len(groups)+1, p))
		}
	}

	slices.SortStableFunc(groups, func(a, b *photo.Group) int {
		return cmp.Compare(b.Len(), a.Len())
	})

	if e != nil && e.Logger != nil {
		e.Logger.Debug("grouped photos", "photos", len(photos), "groups", len(groups), "threshold", limit)
	}
	return groups
}

// GroupByColor pairs sources with their analyses by index and groups them
// with the default threshold. Sources beyond the end of analyses are left
// ungrouped.
func GroupByColor(sources []photo.Source, analyses []photo.ColorAnalysis) []*photo.Group {
	photos := photo.FromSources(sources)
	for i, p := range photos {
		if i < len(analyses) {
			p.Annotate(analyses[i])
		}
	}
	return New().Group(photos)
}
