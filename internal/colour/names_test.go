package colour

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	samples := []RGB{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {12, 200, 99}, {128, 128, 128},
	}

	for _, a := range samples {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range samples {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("Distance(%v, %v) != Distance(%v, %v)", a, b, b, a)
			}
		}
	}

	// Green differences weigh more than red ones.
	base := RGB{100, 100, 100}
	if Distance(base, RGB{110, 100, 100}) >= Distance(base, RGB{100, 110, 100}) {
		t.Error("red delta should cost less than green delta")
	}

	want := math.Sqrt(2*100 + 4*100 + 3*100)
	if got := Distance(base, RGB{110, 110, 110}); math.Abs(got-want) > 1e-9 {
		t.Errorf("Distance() = %v, want %v", got, want)
	}
}

func TestNearest(t *testing.T) {
	tests := []struct {
		in   RGB
		want string
	}{
		{RGB{255, 0, 0}, "Red"},
		{RGB{250, 10, 5}, "Red"},
		{RGB{0, 0, 120}, "Navy"},
		{RGB{128, 128, 128}, "Gray"},
		{RGB{5, 5, 5}, "Black"},
		{RGB{0, 250, 0}, "Lime"},
		{RGB{0, 128, 0}, "Green"},
		{RGB{255, 165, 0}, "Orange"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NameOf(tt.in); got != tt.want {
				t.Errorf("NameOf(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNamedColorsTable(t *testing.T) {
	table := NamedColors()
	if len(table) < 20 {
		t.Fatalf("NamedColors() has %d entries, want at least 20", len(table))
	}

	seen := make(map[string]bool)
	for _, nc := range table {
		if seen[nc.Name] {
			t.Errorf("duplicate name %q", nc.Name)
		}
		seen[nc.Name] = true
		if len(nc.Tokens) == 0 {
			t.Errorf("%s has no tokens", nc.Name)
		}
		if got := Nearest(nc.RGB).Name; got != nc.Name {
			t.Errorf("Nearest(%s) = %q, want itself", nc.Name, got)
		}
	}

	// The returned slice is a copy.
	table[0].Name = "changed"
	if NamedColors()[0].Name == "changed" {
		t.Error("NamedColors() exposed the internal table")
	}
}

func TestMatchLabel(t *testing.T) {
	tests := []struct {
		label  string
		want   string
		wantOK bool
	}{
		{"Red T-Shirt", "Red", true},
		{"dark GREY hoodie", "Gray", true},
		{"gray sweater", "Gray", true},
		{"navy polo", "Navy", true},
		{"t-shirt", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := MatchLabel(tt.label)
			if ok != tt.wantOK {
				t.Fatalf("MatchLabel(%q) ok = %v, want %v", tt.label, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("MatchLabel(%q) = %q, want %q", tt.label, got.Name, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#ff0000", RGB{255, 0, 0}, false},
		{"00FF00", RGB{0, 255, 0}, false},
		{" #000080 ", RGB{0, 0, 128}, false},
		{"#fff", RGB{255, 255, 255}, false},
		{"#zzzzzz", RGB{}, true},
		{"", RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGBFormatting(t *testing.T) {
	c := RGB{R: 0, G: 128, B: 255}
	if got := c.Hex(); got != "#0080ff" {
		t.Errorf("Hex() = %q, want %q", got, "#0080ff")
	}
	if got := c.String(); got != "rgb(0, 128, 255)" {
		t.Errorf("String() = %q, want %q", got, "rgb(0, 128, 255)")
	}
}

func TestStripANSI(t *testing.T) {
	s := Swatch(RGB{255, 0, 0}, 4) + " red"
	if got := StripANSI(s); got != "     red" {
		t.Errorf("StripANSI() = %q, want %q", got, "     red")
	}
}
