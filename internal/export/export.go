// Package export writes grouped photos to a directory tree or an archive.
//
// Every member of a group is stored as
//
//	<group>/<group>_<n>_<file>
//
// where n is the photo's 1-based position in its group. A manifest.json at
// the root lists each group with its colour and members.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/security"
)

// ManifestName is the manifest file written at the export root.
const ManifestName = "manifest.json"

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("no groups to export")

// Entry is one photo and its path inside the export.
type Entry struct {
	Path  string
	Photo *photo.Photo
}

// Plan returns the export path of every grouped photo, group by group.
func Plan(groups []*photo.Group) []Entry {
	var entries []Entry
	for _, g := range groups {
		dir := sanitize(g.Name)
		for i, p := range g.Photos {
			name := fmt.Sprintf("%s_%d_%s", dir, i+1, sanitize(p.Name))
			entries = append(entries, Entry{Path: path.Join(dir, name), Photo: p})
		}
	}
	return entries
}

// sanitize makes s safe as a single path element.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// Manifest describes an export.
type Manifest struct {
	Generated time.Time       `json:"generated"`
	Groups    []ManifestGroup `json:"groups"`
}

// ManifestGroup is one group in the manifest.
type ManifestGroup struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Color     string         `json:"color"`
	ColorName string         `json:"color_name"`
	Files     []ManifestFile `json:"files"`
}

// ManifestFile is one exported photo.
type ManifestFile struct {
	Path       string  `json:"path"`
	Source     string  `json:"source"`
	Color      string  `json:"color,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Origin     string  `json:"origin,omitempty"`
}

// BuildManifest describes groups as laid out by Plan.
func BuildManifest(groups []*photo.Group) Manifest {
	m := Manifest{Generated: time.Now().UTC()}
	entries := Plan(groups)
	k := 0
	for _, g := range groups {
		mg := ManifestGroup{
			ID:        g.ID,
			Name:      g.Name,
			Color:     g.RepresentativeColor.Hex(),
			ColorName: g.ColorName(),
		}
		for _, p := range g.Photos {
			f := ManifestFile{Path: entries[k].Path, Source: p.Name}
			if p.Analysis != nil {
				f.Color = p.Analysis.Hex()
				f.Confidence = p.Analysis.Confidence
				f.Origin = p.Analysis.Origin()
			}
			mg.Files = append(mg.Files, f)
			k++
		}
		m.Groups = append(m.Groups, mg)
	}
	return m
}

func manifestJSON(groups []*photo.Group) ([]byte, error) {
	data, err := json.MarshalIndent(BuildManifest(groups), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// copyPhoto streams the encoded photo to w.
func copyPhoto(ctx context.Context, w io.Writer, p *photo.Photo) error {
	if p.Source == nil {
		return fmt.Errorf("photo %s has no source", p.Name)
	}
	rc, err := imgpkg.Open(ctx, p.Source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p.Name, err)
	}
	defer rc.Close()

	if _, err := io.Copy(w, security.NewLimitedReader(rc, imgpkg.DefaultMaxBytes)); err != nil {
		return fmt.Errorf("failed to copy %s: %w", p.Name, err)
	}
	return nil
}

// readPhoto reads the whole encoded photo; tar headers need the size up front.
func readPhoto(ctx context.Context, p *photo.Photo) ([]byte, error) {
	var buf bytes.Buffer
	if err := copyPhoto(ctx, &buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func modTime(p *photo.Photo, fallback time.Time) time.Time {
	if !p.CapturedAt.IsZero() {
		return p.CapturedAt
	}
	return fallback
}
