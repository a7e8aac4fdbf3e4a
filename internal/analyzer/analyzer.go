// Package analyzer decides the garment colour of a photo.
//
// Each photo goes through up to three paths: the classifier override, pixel
// analysis of fixed torso regions with a fallback region, and finally a fixed
// neutral default. Analysis never fails; problems are logged and the next
// path is tried.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/shirtsort/internal/classifier"
	"github.com/jmylchreest/shirtsort/internal/colour"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/regions"
)

// ProgressFunc is called once per photo, in input order.
type ProgressFunc func(done, total int, name string, a photo.ColorAnalysis)

// Analyzer produces one ColorAnalysis per photo.
type Analyzer struct {
	sampler  *regions.Sampler
	override classifier.Override
	logger   hclog.Logger
	workers  int
	progress ProgressFunc
	maxBytes int64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSampler sets the pixel sampler.
func WithSampler(s *regions.Sampler) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.sampler = s
		}
	}
}

// WithOverride sets the classifier override.
func WithOverride(o classifier.Override) Option {
	return func(a *Analyzer) {
		if o != nil {
			a.override = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithWorkers sets how many photos AnalyzeAll processes at once.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithProgress registers a progress callback for AnalyzeAll.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Analyzer) {
		a.progress = fn
	}
}

// WithMaxImageBytes caps how much of each photo is read.
func WithMaxImageBytes(n int64) Option {
	return func(a *Analyzer) {
		a.maxBytes = n
	}
}

// New creates an analyzer. Without options it uses pixel analysis only,
// sequentially, with the default sampler.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		sampler:  regions.NewSampler(),
		override: classifier.Unavailable{},
		logger:   hclog.NewNullLogger(),
		workers:  1,
		maxBytes: imgpkg.DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the colour analysis of src. It never fails: undecodable
// input, a cancelled context or a panic while processing all yield
// photo.DefaultAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, src photo.Source) (result photo.ColorAnalysis) {
	name := src.Name()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic during analysis", "photo", name, "panic", r)
			result = photo.DefaultAnalysis()
		}
	}()

	if err := ctx.Err(); err != nil {
		return photo.DefaultAnalysis()
	}

	img, err := imgpkg.LoadContext(ctx, src, a.maxBytes)
	if err != nil {
		a.logger.Warn("using default colour", "photo", name, "error", fmt.Errorf("%w: %w", ErrDecodeFailure, err))
		return photo.DefaultAnalysis()
	}

	return a.AnalyzeImage(ctx, name, img)
}

// AnalyzeImage runs the override and pixel paths over a decoded image.
func (a *Analyzer) AnalyzeImage(ctx context.Context, name string, img image.Image) photo.ColorAnalysis {
	if res, err := a.override.Detect(ctx, img); err == nil {
		return photo.ColorAnalysis{
			DominantColor: res.Color,
			ColorName:     res.Name,
			Confidence:    res.Confidence,
			IsOverride:    true,
		}
	} else if !errors.Is(err, ErrClassifierUnavailable) {
		a.logger.Debug("classifier gave no colour", "photo", name, "error", err)
	}

	best, _, _ := a.pixelPath(a.sampler.Normalize(img))
	if !best.Eligible {
		a.logger.Debug("using default colour", "photo", name, "error", ErrNoEligibleBucket)
		return photo.DefaultAnalysis()
	}

	return photo.ColorAnalysis{
		DominantColor: best.Color,
		ColorName:     colour.NameOf(best.Color),
		Confidence:    best.Confidence,
	}
}

// pixelPath extracts the dominant colour of each torso region and picks the
// best; when none stands out it samples the fallback region. The returned
// result is ineligible when the fallback also fails.
func (a *Analyzer) pixelPath(norm *image.NRGBA) (colour.RegionResult, []RegionReport, *RegionReport) {
	torso := regions.TorsoRegions()
	reports := make([]RegionReport, len(torso))
	results := make([]colour.RegionResult, len(torso))
	for i, r := range torso {
		reports[i] = extract(norm, r)
		results[i] = reports[i].Result
	}

	if best, ok := colour.SelectBest(results); ok {
		for i := range reports {
			if reports[i].Region == best.Region {
				reports[i].Chosen = true
				break
			}
		}
		return best, reports, nil
	}

	fb := extract(norm, regions.FallbackRegion())
	fb.Chosen = fb.Result.Eligible
	return fb.Result, reports, &fb
}

func extract(norm *image.NRGBA, r regions.Region) RegionReport {
	s := regions.SampleRegion(norm, r)
	res := colour.DominantColor(s.Pixels)
	res.Region = r.Name
	return RegionReport{
		Region:  r.Name,
		Scanned: s.Scanned,
		Kept:    len(s.Pixels),
		Result:  res,
	}
}

// AnalyzeAll analyses every source and returns the results in input order.
func (a *Analyzer) AnalyzeAll(ctx context.Context, sources []photo.Source) []photo.ColorAnalysis {
	results := make([]photo.ColorAnalysis, len(sources))
	if len(sources) == 0 {
		return results
	}

	if a.workers <= 1 {
		for i, src := range sources {
			results[i] = a.Analyze(ctx, src)
			a.report(i+1, len(sources), src.Name(), results[i])
		}
		return results
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		finished  = make([]bool, len(sources))
		next      int
		semaphore = make(chan struct{}, a.workers)
	)

	for i, src := range sources {
		wg.Add(1)
		semaphore <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			res := a.Analyze(ctx, src)

			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			finished[i] = true
			for next < len(sources) && finished[next] {
				a.report(next+1, len(sources), sources[next].Name(), results[next])
				next++
			}
		}()
	}
	wg.Wait()

	return results
}

func (a *Analyzer) report(done, total int, name string, res photo.ColorAnalysis) {
	if a.progress != nil {
		a.progress(done, total, name, res)
	}
}

// AnalyzePhotos analyses the photos and annotates each in place.
func (a *Analyzer) AnalyzePhotos(ctx context.Context, photos []*photo.Photo) {
	sources := make([]photo.Source, len(photos))
	for i, p := range photos {
		sources[i] = p.Source
	}
	for i, res := range a.AnalyzeAll(ctx, sources) {
		photos[i].Annotate(res)
	}
}
