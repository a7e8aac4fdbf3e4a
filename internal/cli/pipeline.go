package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jmylchreest/shirtsort/internal/analyzer"
	"github.com/jmylchreest/shirtsort/internal/classifier"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/regions"
)

// loadPhotos expands inputs into photos in the configured order.
func (a *app) loadPhotos(inputs []string) ([]*photo.Photo, error) {
	paths, err := imgpkg.ExpandPaths(inputs)
	if err != nil {
		return nil, err
	}

	sources, err := imgpkg.NewSources(paths, a.cfg.SourceOptions())
	if err != nil {
		return nil, err
	}

	arranged := imgpkg.Arrange(sources, a.cfg.Order)
	photos := make([]*photo.Photo, len(arranged))
	for i, ar := range arranged {
		photos[i] = photo.New(ar.Source, i)
		photos[i].CapturedAt = ar.CapturedAt
	}

	a.logger.Debug("collected photos", "count", len(photos), "order", a.cfg.Order)
	return photos, nil
}

// newAnalyzer builds an analyzer from the configuration. The caller must
// close the returned override.
func (a *app) newAnalyzer(progress analyzer.ProgressFunc) (*analyzer.Analyzer, classifier.Override, error) {
	override, err := classifier.New(a.cfg.ClassifierOptions(), a.logger.Named("classifier"))
	if err != nil {
		return nil, nil, err
	}

	an := analyzer.New(
		analyzer.WithSampler(&regions.Sampler{Size: a.cfg.SampleSize}),
		analyzer.WithOverride(override),
		analyzer.WithLogger(a.logger.Named("analyzer")),
		analyzer.WithWorkers(a.cfg.Workers),
		analyzer.WithMaxImageBytes(a.cfg.MaxImageBytes),
		analyzer.WithProgress(progress),
	)
	return an, override, nil
}

// analyzeInputs loads and analyses every input photo.
func (a *app) analyzeInputs(ctx context.Context, inputs []string, stderr io.Writer) ([]*photo.Photo, error) {
	photos, err := a.loadPhotos(inputs)
	if err != nil {
		return nil, err
	}

	an, override, err := a.newAnalyzer(a.progress(stderr))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := override.Close(); err != nil {
			a.logger.Warn("failed to close classifier", "error", err)
		}
	}()

	an.AnalyzePhotos(ctx, photos)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}
	return photos, nil
}

func (a *app) progress(w io.Writer) analyzer.ProgressFunc {
	if a.quiet {
		return nil
	}
	return func(done, total int, name string, res photo.ColorAnalysis) {
		fmt.Fprintf(w, "[%d/%d] %s -> %s (%.2f)\n", done, total, name, res.ColorName, res.Confidence)
	}
}
