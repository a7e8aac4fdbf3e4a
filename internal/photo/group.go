package photo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jmylchreest/shirtsort/internal/colour"
)

// Group is a set of photos whose garment colour is close to the colour of the
// photo that founded the group.
type Group struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// RepresentativeColor is fixed when the group is created and is never
	// recomputed as members join.
	RepresentativeColor colour.RGB `json:"representative_color" yaml:"representative_color"`

	Photos []*Photo `json:"photos" yaml:"photos"`
}

// NewGroup creates the n-th group (1-based) founded by p.
// The founding photo's analysis must be set.
func NewGroup(n int, p *Photo) *Group {
	g := &Group{
		ID:                  uuid.NewSHA1(Namespace, fmt.Appendf(nil, "group/%d", n)).String(),
		Name:                fmt.Sprintf("Day %d", n),
		RepresentativeColor: p.Analysis.DominantColor,
	}
	g.Add(p)
	return g
}

// Add appends p to the group and records the membership on p.
func (g *Group) Add(p *Photo) {
	g.Photos = append(g.Photos, p)
	p.GroupID = g.ID
}

// Len returns the number of photos in the group.
func (g *Group) Len() int {
	return len(g.Photos)
}

// ColorName is the nearest named colour of the representative colour.
func (g *Group) ColorName() string {
	return colour.NameOf(g.RepresentativeColor)
}
