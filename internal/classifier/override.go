package classifier

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultTimeout bounds a single classification.
	DefaultTimeout = 20 * time.Second

	// DefaultInitTimeout bounds classifier start-up.
	DefaultInitTimeout = 30 * time.Second
)

// Override produces a label-derived colour for an image, if it can.
// Detect returns ErrUnavailable or ErrInconclusive (possibly wrapped) when it
// has no opinion; callers should treat every error as "use pixel analysis".
type Override interface {
	Detect(ctx context.Context, img image.Image) (Result, error)

	// Close releases the underlying classifier.
	Close() error
}

// Unavailable is the Override used when no classifier is configured.
type Unavailable struct {
	Reason string
}

// Detect always reports ErrUnavailable.
func (u Unavailable) Detect(context.Context, image.Image) (Result, error) {
	if u.Reason == "" {
		return Result{}, ErrUnavailable
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnavailable, u.Reason)
}

// Close is a no-op.
func (Unavailable) Close() error { return nil }

// Initializer creates the classifier. It may be slow.
type Initializer func(ctx context.Context) (Classifier, error)

// Available wraps a lazily started classifier. Start-up happens at most once,
// on the first Detect; if it fails the override stays disabled for the rest
// of the run. Calls into the classifier are serialised, so one Available may
// be shared by parallel analysis workers.
type Available struct {
	init        Initializer
	logger      hclog.Logger
	timeout     time.Duration
	initTimeout time.Duration

	once    sync.Once
	initErr error

	mu         sync.Mutex
	classifier Classifier
}

// AvailableOption configures an Available.
type AvailableOption func(*Available)

// WithLogger sets the logger used for start-up and per-call diagnostics.
func WithLogger(l hclog.Logger) AvailableOption {
	return func(a *Available) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTimeout bounds each classification.
func WithTimeout(d time.Duration) AvailableOption {
	return func(a *Available) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithInitTimeout bounds classifier start-up.
func WithInitTimeout(d time.Duration) AvailableOption {
	return func(a *Available) {
		if d > 0 {
			a.initTimeout = d
		}
	}
}

// NewAvailable returns an Override backed by the classifier init creates.
func NewAvailable(init Initializer, opts ...AvailableOption) *Available {
	a := &Available{
		init:        init,
		logger:      hclog.NewNullLogger(),
		timeout:     DefaultTimeout,
		initTimeout: DefaultInitTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Static wraps an already constructed classifier.
func Static(c Classifier, opts ...AvailableOption) *Available {
	return NewAvailable(func(context.Context) (Classifier, error) { return c, nil }, opts...)
}

func (a *Available) start(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.initTimeout)
	defer cancel()

	started := time.Now()
	c, err := a.init(ctx)
	if err == nil && c == nil {
		err = fmt.Errorf("initializer returned no classifier")
	}
	if err != nil {
		a.initErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
		a.logger.Warn("classifier failed to start, using pixel analysis only", "error", err)
		return
	}

	a.classifier = c
	a.logger.Debug("classifier ready", "elapsed", time.Since(started))
}

// Err returns the start-up error, if start-up has run and failed.
func (a *Available) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initErr
}

// Detect classifies img and maps the labels to a colour.
func (a *Available) Detect(ctx context.Context, img image.Image) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.once.Do(func() { a.start(ctx) })
	if a.initErr != nil {
		return Result{}, a.initErr
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	labels, err := a.classifier.Classify(ctx, img)
	if err != nil {
		a.logger.Debug("classification failed", "error", err)
		return Result{}, fmt.Errorf("classify: %w", err)
	}

	res, ok := FromLabels(labels)
	if !ok {
		a.logger.Debug("no colour in labels", "labels", len(labels))
		return Result{}, ErrInconclusive
	}

	a.logger.Debug("colour from label", "label", res.Label, "colour", res.Name, "confidence", res.Confidence)
	return res, nil
}

// Close closes the classifier if it holds resources.
func (a *Available) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if closer, ok := a.classifier.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
