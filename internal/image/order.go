package image

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/jmylchreest/shirtsort/internal/photo"
)

// Order selects how photos are arranged before grouping. Grouping is
// order-sensitive, so the choice affects which photo founds each group.
type Order string

const (
	// OrderInput keeps the order in which photos were given.
	OrderInput Order = "input"

	// OrderName sorts by file name.
	OrderName Order = "name"

	// OrderCapture sorts by EXIF capture time, then modification time.
	OrderCapture Order = "capture"
)

// ValidOrders returns the accepted order names.
func ValidOrders() []Order {
	return []Order{OrderInput, OrderName, OrderCapture}
}

// ParseOrder converts a string to an Order.
func ParseOrder(s string) (Order, error) {
	o := Order(strings.ToLower(strings.TrimSpace(s)))
	if o == "" {
		return OrderInput, nil
	}
	if !slices.Contains(ValidOrders(), o) {
		return "", fmt.Errorf("invalid order %q (valid: input, name, capture)", s)
	}
	return o, nil
}

// Arranged is a source with the capture time used to place it.
type Arranged struct {
	Source     photo.Source
	CapturedAt time.Time
}

// Arrange returns the sources in the requested order. Sorting is stable, so
// ties keep input order. Capture times are only looked up for OrderCapture;
// sources without a usable time sort after those with one.
func Arrange(sources []photo.Source, order Order) []Arranged {
	out := make([]Arranged, len(sources))
	for i, src := range sources {
		out[i] = Arranged{Source: src}
		if order == OrderCapture {
			out[i].CapturedAt = CaptureTime(src)
		}
	}

	switch order {
	case OrderName:
		slices.SortStableFunc(out, func(a, b Arranged) int {
			return strings.Compare(a.Source.Name(), b.Source.Name())
		})
	case OrderCapture:
		slices.SortStableFunc(out, func(a, b Arranged) int {
			switch {
			case a.CapturedAt.IsZero() && b.CapturedAt.IsZero():
				return 0
			case a.CapturedAt.IsZero():
				return 1
			case b.CapturedAt.IsZero():
				return -1
			}
			return cmp.Compare(a.CapturedAt.UnixNano(), b.CapturedAt.UnixNano())
		})
	}

	return out
}

// CaptureTime returns the EXIF DateTimeOriginal of src. Files without EXIF
// data fall back to their modification time; other sources return the zero
// time.
func CaptureTime(src photo.Source) time.Time {
	if t, err := exifTime(src); err == nil && !t.IsZero() {
		return t
	}
	if fs, ok := src.(FileSource); ok {
		return fs.ModTime()
	}
	return time.Time{}
}

func exifTime(src photo.Source) (time.Time, error) {
	rc, err := src.Open()
	if err != nil {
		return time.Time{}, err
	}
	defer rc.Close()

	x, err := exif.Decode(rc)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}
