package analyzer

import (
	"errors"

	"github.com/jmylchreest/shirtsort/internal/classifier"
)

// Failure kinds. Analyze never returns these; they classify what was logged
// when a detection path gave up.
var (
	// ErrDecodeFailure means the photo could not be opened or decoded.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrClassifierUnavailable means no classifier could be used.
	ErrClassifierUnavailable = classifier.ErrUnavailable

	// ErrClassifierInconclusive means no classifier label named a colour.
	ErrClassifierInconclusive = classifier.ErrInconclusive

	// ErrNoEligibleBucket means no region produced a usable colour.
	ErrNoEligibleBucket = errors.New("no eligible colour bucket")
)
