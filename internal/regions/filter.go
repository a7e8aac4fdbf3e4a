package regions

// Filter thresholds.
const (
	MinAlpha      = 128
	MinBrightness = 30
	MaxBrightness = 240
)

// Keep reports whether a pixel should be counted: it must be mostly opaque,
// neither shadow nor blown highlight, and not skin.
func Keep(r, g, b, a uint8) bool {
	if a < MinAlpha {
		return false
	}
	brightness := (float64(r) + float64(g) + float64(b)) / 3
	if brightness < MinBrightness || brightness > MaxBrightness {
		return false
	}
	return !IsSkin(r, g, b)
}

// IsSkin is a two-rule RGB skin heuristic. The first rule covers medium and
// darker tones, the second pale tones under bright light.
func IsSkin(r, g, b uint8) bool {
	ri, gi, bi := int(r), int(g), int(b)

	if ri > 95 && gi > 40 && bi > 20 && ri > gi && ri > bi && ri-gi > 15 && ri-bi > 15 {
		return true
	}
	return ri > 200 && gi > 150 && bi > 100 && abs(ri-gi) < 50 && abs(ri-bi) < 80
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
