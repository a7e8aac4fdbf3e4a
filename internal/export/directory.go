package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/security"
)

// ToDirectory copies grouped photos under dir, creating it if needed.
// Existing files with the same names are overwritten.
func ToDirectory(ctx context.Context, groups []*photo.Group, dir string) error {
	entries := Plan(groups)
	if len(entries) == 0 {
		return ErrEmpty
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := security.ValidateFilePath(e.Path, dir); err != nil {
			return fmt.Errorf("invalid export path %q: %w", e.Path, err)
		}

		dest := filepath.Join(dir, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return fmt.Errorf("failed to create group directory: %w", err)
		}
		if err := writeFile(ctx, dest, e.Photo); err != nil {
			return err
		}
	}

	data, err := manifestJSON(groups)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func writeFile(ctx context.Context, dest string, p *photo.Photo) error {
	out, err := os.Create(dest) // #nosec G304 - path validated against the export directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	copyErr := copyPhoto(ctx, out, p)
	closeErr := out.Close()
	if copyErr != nil {
		_ = os.Remove(dest)
		return copyErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", dest, closeErr)
	}
	return nil
}
