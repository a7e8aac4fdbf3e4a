package colour

import (
	"math"
)

const (
	// QuantizeStep is the channel step used to merge near-identical colours
	// into one bucket.
	QuantizeStep = 16

	// MinBucketCount is the exclusive lower bound on a winning bucket's size.
	MinBucketCount = 10

	// MinBucketShare is the exclusive lower bound on a winning bucket's share
	// of the sampled pixels.
	MinBucketShare = 0.05

	// MaxConfidence caps pixel-derived confidence.
	MaxConfidence = 0.95

	confidenceScale = 1.5
)

// Neutral is the colour reported when nothing better is known.
var Neutral = RGB{R: 128, G: 128, B: 128}

// RegionResult is the outcome of dominant colour extraction over one region.
type RegionResult struct {
	// Region is the name of the sampled region, if any.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Color is the winning quantised colour, or Neutral when not Eligible.
	Color RGB `json:"color" yaml:"color"`

	// Confidence is min(MaxConfidence, share*1.5), 0 when not Eligible.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Count is the number of pixels in the winning bucket.
	Count int `json:"count" yaml:"count"`

	// Total is the number of pixels that survived filtering.
	Total int `json:"total" yaml:"total"`

	// Eligible reports whether any bucket met both thresholds.
	Eligible bool `json:"eligible" yaml:"eligible"`
}

// Quantize rounds each channel to the nearest multiple of step.
// Values that would round past 255 are clamped to 255.
func Quantize(c RGB, step int) RGB {
	if step <= 1 {
		return c
	}
	return RGB{
		R: quantizeChannel(c.R, step),
		G: quantizeChannel(c.G, step),
		B: quantizeChannel(c.B, step),
	}
}

func quantizeChannel(v uint8, step int) uint8 {
	q := int(math.Round(float64(v)/float64(step))) * step
	if q > 255 {
		q = 255
	}
	return uint8(q) // #nosec G115 - clamped above
}

// Bucket is one quantised colour and the number of pixels that fell into it.
type Bucket struct {
	Color RGB
	Count int
}

// Histogram quantises pixels and counts them per bucket. Buckets are returned
// in the order they were first encountered.
func Histogram(pixels []RGB, step int) []Bucket {
	index := make(map[RGB]int)
	buckets := make([]Bucket, 0, 64)
	for _, p := range pixels {
		q := Quantize(p, step)
		if i, ok := index[q]; ok {
			buckets[i].Count++
			continue
		}
		index[q] = len(buckets)
		buckets = append(buckets, Bucket{Color: q, Count: 1})
	}
	return buckets
}

// DominantColor picks the most populous eligible bucket among pixels.
// A bucket is eligible when it holds more than MinBucketCount pixels and
// more than MinBucketShare of all pixels. Ties go to the bucket seen first.
func DominantColor(pixels []RGB) RegionResult {
	total := len(pixels)
	result := RegionResult{Color: Neutral, Total: total}
	if total == 0 {
		return result
	}

	var winner *Bucket
	buckets := Histogram(pixels, QuantizeStep)
	for i := range buckets {
		b := &buckets[i]
		if !bucketEligible(b.Count, total) {
			continue
		}
		if winner == nil || b.Count > winner.Count {
			winner = b
		}
	}
	if winner == nil {
		return result
	}

	result.Color = winner.Color
	result.Count = winner.Count
	result.Eligible = true
	result.Confidence = Confidence(winner.Count, total)
	return result
}

func bucketEligible(count, total int) bool {
	return count > MinBucketCount && float64(count)/float64(total) > MinBucketShare
}

// Confidence returns min(MaxConfidence, count/total*1.5).
func Confidence(count, total int) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	return math.Min(MaxConfidence, float64(count)/float64(total)*confidenceScale)
}

// SelectBest returns the eligible result with the strictly highest
// confidence. It reports false when no result is eligible, or when there is
// more than one result and all of them share the same confidence; the caller
// is then expected to sample a catch-all region instead.
func SelectBest(results []RegionResult) (RegionResult, bool) {
	if len(results) == 0 {
		return RegionResult{Color: Neutral}, false
	}

	allTied := len(results) > 1
	var best RegionResult
	found := false
	for i, r := range results {
		if i > 0 && r.Confidence != results[0].Confidence {
			allTied = false
		}
		if !r.Eligible {
			continue
		}
		if !found || r.Confidence > best.Confidence {
			best = r
			found = true
		}
	}

	if !found || allTied {
		return RegionResult{Color: Neutral}, false
	}
	return best, true
}
