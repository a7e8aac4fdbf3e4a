package colour

import "math"

// Channel weights for Distance. Green carries the most weight, then blue.
const (
	weightR = 2.0
	weightG = 4.0
	weightB = 3.0
)

// Distance returns the weighted Euclidean distance between two colours:
//
//	sqrt(2*dr^2 + 4*dg^2 + 3*db^2)
//
// Name lookup and grouping both use this metric so their thresholds are
// comparable.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(weightR*dr*dr + weightG*dg*dg + weightB*db*db)
}
