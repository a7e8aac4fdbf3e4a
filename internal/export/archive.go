package export

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/shirtsort/internal/photo"
)

// ToZip writes grouped photos and the manifest as a zip archive.
func ToZip(ctx context.Context, groups []*photo.Group, w io.Writer) error {
	entries := Plan(groups)
	if len(entries) == 0 {
		return ErrEmpty
	}

	now := time.Now()
	zw := zip.NewWriter(w)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Photos are already compressed.
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Store,
			Modified: modTime(e.Photo, now),
		})
		if err != nil {
			return fmt.Errorf("failed to add %s to zip: %w", e.Path, err)
		}
		if err := copyPhoto(ctx, fw, e.Photo); err != nil {
			return err
		}
	}

	data, err := manifestJSON(groups)
	if err != nil {
		return err
	}
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: ManifestName, Method: zip.Deflate, Modified: now})
	if err != nil {
		return fmt.Errorf("failed to add manifest to zip: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish zip archive: %w", err)
	}
	return nil
}

// ToTarXz writes grouped photos and the manifest as an xz-compressed tar.
func ToTarXz(ctx context.Context, groups []*photo.Group, w io.Writer) error {
	entries := Plan(groups)
	if len(entries) == 0 {
		return ErrEmpty
	}

	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	tw := tar.NewWriter(xzw)

	now := time.Now()
	add := func(name string, data []byte, mod time.Time) error {
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(data)),
			ModTime:  mod,
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("failed to write %s to tar: %w", name, err)
		}
		return nil
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := readPhoto(ctx, e.Photo)
		if err != nil {
			return err
		}
		if err := add(e.Path, data, modTime(e.Photo, now)); err != nil {
			return err
		}
	}

	manifest, err := manifestJSON(groups)
	if err != nil {
		return err
	}
	if err := add(ManifestName, manifest, now); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finish tar archive: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

// ArchiveFormat identifies an archive type by file name.
type ArchiveFormat string

// Supported archive formats.
const (
	FormatZip   ArchiveFormat = "zip"
	FormatTarXz ArchiveFormat = "tar.xz"
)

// DetectFormat returns the archive format implied by the file name.
func DetectFormat(name string) (ArchiveFormat, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FormatTarXz, nil
	}
	return "", fmt.Errorf("unsupported archive type %q (use .zip or .tar.xz)", name)
}

// WriteArchive creates the archive at path, choosing the format from its
// extension. A partially written file is removed on failure.
func WriteArchive(ctx context.Context, groups []*photo.Group, path string) (err error) {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path) // #nosec G304 - user-specified output path
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if format == FormatZip {
		return ToZip(ctx, groups, f)
	}
	return ToTarXz(ctx, groups, f)
}
