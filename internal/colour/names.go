package colour

import (
	"math"
	"strings"
)

// NamedColor maps a canonical RGB value to a human readable name.
type NamedColor struct {
	Name string
	RGB  RGB

	// Tokens are the lower-case words that identify this colour inside a
	// free-text label. The first token is always the lower-cased name.
	Tokens []string
}

// namedColors is the reference table. Order matters: Nearest breaks ties
// by table order and MatchLabel scans tokens in table order.
var namedColors = []NamedColor{
	{Name: "Red", RGB: MustParseHex("#ff0000"), Tokens: []string{"red"}},
	{Name: "Blue", RGB: MustParseHex("#0000ff"), Tokens: []string{"blue"}},
	{Name: "Green", RGB: MustParseHex("#008000"), Tokens: []string{"green"}},
	{Name: "Yellow", RGB: MustParseHex("#ffff00"), Tokens: []string{"yellow"}},
	{Name: "Orange", RGB: MustParseHex("#ffa500"), Tokens: []string{"orange"}},
	{Name: "Purple", RGB: MustParseHex("#800080"), Tokens: []string{"purple"}},
	{Name: "Pink", RGB: MustParseHex("#ffc0cb"), Tokens: []string{"pink"}},
	{Name: "Black", RGB: MustParseHex("#000000"), Tokens: []string{"black"}},
	{Name: "White", RGB: MustParseHex("#ffffff"), Tokens: []string{"white"}},
	{Name: "Gray", RGB: MustParseHex("#808080"), Tokens: []string{"gray", "grey"}},
	{Name: "Brown", RGB: MustParseHex("#a52a2a"), Tokens: []string{"brown"}},
	{Name: "Navy", RGB: MustParseHex("#000080"), Tokens: []string{"navy"}},
	{Name: "Maroon", RGB: MustParseHex("#800000"), Tokens: []string{"maroon"}},
	{Name: "Teal", RGB: MustParseHex("#008080"), Tokens: []string{"teal"}},
	{Name: "Lime", RGB: MustParseHex("#00ff00"), Tokens: []string{"lime"}},
	{Name: "Cyan", RGB: MustParseHex("#00ffff"), Tokens: []string{"cyan"}},
	{Name: "Magenta", RGB: MustParseHex("#ff00ff"), Tokens: []string{"magenta"}},
	{Name: "Silver", RGB: MustParseHex("#c0c0c0"), Tokens: []string{"silver"}},
	{Name: "Gold", RGB: MustParseHex("#ffd700"), Tokens: []string{"gold"}},
	{Name: "Olive", RGB: MustParseHex("#808000"), Tokens: []string{"olive"}},
	{Name: "Beige", RGB: MustParseHex("#f5f5dc"), Tokens: []string{"beige"}},
	{Name: "Khaki", RGB: MustParseHex("#f0e68c"), Tokens: []string{"khaki"}},
	{Name: "Lavender", RGB: MustParseHex("#e6e6fa"), Tokens: []string{"lavender"}},
	{Name: "Coral", RGB: MustParseHex("#ff7f50"), Tokens: []string{"coral"}},
	{Name: "Burgundy", RGB: MustParseHex("#800020"), Tokens: []string{"burgundy"}},
}

// NamedColors returns a copy of the reference table in lookup order.
func NamedColors() []NamedColor {
	out := make([]NamedColor, len(namedColors))
	copy(out, namedColors)
	return out
}

// Nearest returns the table entry closest to c by Distance.
// Ties go to the entry that appears first in the table.
func Nearest(c RGB) NamedColor {
	best := namedColors[0]
	bestDist := math.MaxFloat64
	for _, nc := range namedColors {
		if d := Distance(c, nc.RGB); d < bestDist {
			bestDist = d
			best = nc
		}
	}
	return best
}

// NameOf is shorthand for Nearest(c).Name.
func NameOf(c RGB) string {
	return Nearest(c).Name
}

// MatchLabel reports the first named colour whose token occurs in label,
// compared case-insensitively.
func MatchLabel(label string) (NamedColor, bool) {
	lower := strings.ToLower(label)
	for _, nc := range namedColors {
		for _, token := range nc.Tokens {
			if strings.Contains(lower, token) {
				return nc, true
			}
		}
	}
	return NamedColor{}, false
}
