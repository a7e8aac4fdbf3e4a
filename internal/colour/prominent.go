package colour

import (
	"fmt"
	"image"
	"sort"

	"github.com/EdlinOrg/prominentcolor"
)

// PaletteEntry is one colour of a k-means palette with its relative weight.
type PaletteEntry struct {
	Color  RGB     `json:"color" yaml:"color"`
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// ProminentPalette clusters img into k colours with k-means and returns them
// ordered by weight, heaviest first. It is diagnostic output only; the
// grouping pipeline relies on DominantColor.
func ProminentPalette(img image.Image, k int) ([]PaletteEntry, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if k < 1 {
		return nil, fmt.Errorf("palette size must be at least 1, got %d", k)
	}

	// The sampler already crops to the torso, so no further cropping and no
	// background masks.
	items, err := prominentcolor.KmeansWithAll(k, img, prominentcolor.ArgumentNoCropping,
		prominentcolor.DefaultSize, []prominentcolor.ColorBackgroundMask{})
	if err != nil {
		return nil, fmt.Errorf("k-means palette: %w", err)
	}

	total := 0
	for _, item := range items {
		total += item.Cnt
	}

	entries := make([]PaletteEntry, 0, len(items))
	for _, item := range items {
		rgb := RGB{
			R: clampUint32(item.Color.R),
			G: clampUint32(item.Color.G),
			B: clampUint32(item.Color.B),
		}
		weight := 0.0
		if total > 0 {
			weight = float64(item.Cnt) / float64(total)
		}
		entries = append(entries, PaletteEntry{Color: rgb, Name: NameOf(rgb), Weight: weight})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
	return entries, nil
}

func clampUint32(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v) // #nosec G115 - clamped above
}
