package grouping

import (
	"bytes"
	"io"
	"testing"

	"github.com/jmylchreest/shirtsort/internal/colour"
	"github.com/jmylchreest/shirtsort/internal/photo"
)

type namedSource string

func (s namedSource) Name() string                 { return string(s) }
func (s namedSource) Open() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(nil)), nil }

func analysis(c colour.RGB) photo.ColorAnalysis {
	return photo.ColorAnalysis{DominantColor: c, ColorName: colour.NameOf(c), Confidence: 0.9}
}

func photosOf(colours ...colour.RGB) []*photo.Photo {
	var sources []photo.Source
	for i := range colours {
		sources = append(sources, namedSource(string(rune('a'+i))+".jpg"))
	}
	photos := photo.FromSources(sources)
	for i, c := range colours {
		photos[i].Annotate(analysis(c))
	}
	return photos
}

var (
	red  = colour.RGB{R: 255}
	blue = colour.RGB{B: 255}
)

func TestGroupRedRedBlueRed(t *testing.T) {
	photos := photosOf(red, red, blue, red)
	groups := New().Group(photos)

	if len(groups) != 2 {
		t.Fatalf("Group() returned %d groups, want 2", len(groups))
	}
	if groups[0].Len() != 3 || groups[0].RepresentativeColor != red {
		t.Errorf("groups[0] = %s with %d photos, want red with 3", groups[0].RepresentativeColor.Hex(), groups[0].Len())
	}
	if groups[1].Len() != 1 || groups[1].RepresentativeColor != blue {
		t.Errorf("groups[1] = %s with %d photos, want blue with 1", groups[1].RepresentativeColor.Hex(), groups[1].Len())
	}
	if groups[0].Name != "Day 1" || groups[1].Name != "Day 2" {
		t.Errorf("group names = %q, %q, want Day 1, Day 2", groups[0].Name, groups[1].Name)
	}

	for _, g := range groups {
		for _, p := range g.Photos {
			if p.GroupID != g.ID {
				t.Errorf("photo %s GroupID = %s, want %s", p.Name, p.GroupID, g.ID)
			}
		}
	}
	if groups[0].Photos[2] != photos[3] {
		t.Error("members not kept in input order")
	}
}

func TestGroupFirstMatchWins(t *testing.T) {
	// B is within 40 of both A and C, but C is 52 from A.
	a := colour.RGB{R: 100, G: 100, B: 100}
	b := colour.RGB{R: 100, G: 100, B: 118}
	c := colour.RGB{R: 100, G: 100, B: 130}

	if colour.Distance(a, b) >= DefaultThreshold || colour.Distance(b, c) >= DefaultThreshold {
		t.Fatal("fixture colours are not within the threshold")
	}
	if colour.Distance(a, c) < DefaultThreshold {
		t.Fatal("fixture A and C should be apart")
	}

	groups := New().Group(photosOf(a, c, b))
	if len(groups) != 2 {
		t.Fatalf("Group() returned %d groups, want 2", len(groups))
	}
	if groups[0].RepresentativeColor != a || groups[0].Len() != 2 {
		t.Errorf("B should join A's group (created first), got %+v", groups[0])
	}
	if groups[0].Photos[1].Analysis.DominantColor != b {
		t.Error("second member of A's group is not B")
	}
}

func TestGroupRepresentativeFixed(t *testing.T) {
	// Each step is under the threshold from the previous, but the chain
	// drifts away from the founder.
	c0 := colour.RGB{R: 100, G: 100, B: 100}
	c1 := colour.RGB{R: 100, G: 100, B: 120}
	c2 := colour.RGB{R: 100, G: 100, B: 140}

	groups := New().Group(photosOf(c0, c1, c2))
	if len(groups) != 2 {
		t.Fatalf("Group() returned %d groups, want 2", len(groups))
	}
	if groups[0].RepresentativeColor != c0 {
		t.Errorf("representative drifted to %s", groups[0].RepresentativeColor.Hex())
	}
}

func TestGroupStableSort(t *testing.T) {
	green := colour.RGB{G: 200}
	groups := New().Group(photosOf(red, blue, green, green))

	want := []string{"Day 3", "Day 1", "Day 2"}
	for i, g := range groups {
		if g.Name != want[i] {
			t.Errorf("groups[%d] = %s, want %s", i, g.Name, want[i])
		}
	}
}

func TestGroupSkipsUnanalysed(t *testing.T) {
	photos := photosOf(red, blue)
	photos[1].Analysis = nil
	photos = append(photos, nil)

	groups := New().Group(photos)
	if len(groups) != 1 || groups[0].Len() != 1 {
		t.Fatalf("Group() = %d groups, want 1 with 1 photo", len(groups))
	}
	if photos[1].GroupID != "" {
		t.Error("unanalysed photo was assigned a group")
	}
}

func TestGroupThreshold(t *testing.T) {
	a := colour.RGB{R: 100, G: 100, B: 100}
	b := colour.RGB{R: 100, G: 100, B: 118}

	if got := (&Engine{Threshold: 5}).Group(photosOf(a, b)); len(got) != 2 {
		t.Errorf("threshold 5: %d groups, want 2", len(got))
	}
	if got := (&Engine{}).Group(photosOf(a, b)); len(got) != 1 {
		t.Errorf("zero threshold should use default: %d groups, want 1", len(got))
	}
	if got := New().Group(nil); len(got) != 0 {
		t.Errorf("Group(nil) = %d groups, want 0", len(got))
	}
}

func TestGroupByColor(t *testing.T) {
	sources := []photo.Source{namedSource("1.jpg"), namedSource("2.jpg"), namedSource("3.jpg")}
	analyses := []photo.ColorAnalysis{analysis(red), analysis(red)}

	groups := GroupByColor(sources, analyses)
	if len(groups) != 1 || groups[0].Len() != 2 {
		t.Fatalf("GroupByColor() = %d groups, want 1 with 2 photos", len(groups))
	}
	if groups[0].Photos[0].Name != "1.jpg" {
		t.Errorf("first member = %s, want 1.jpg", groups[0].Photos[0].Name)
	}
}
