package image

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoImages is returned when input expansion finds nothing to analyse.
var ErrNoImages = errors.New("no supported image files found")

// ScanDirectoryForImages scans a directory and returns all valid image files
// sorted by name. It does not recurse into subdirectories, but follows
// symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			// Skip entries we can't stat (broken symlinks, permission issues).
			continue
		}

		if info.IsDir() {
			continue
		}

		if IsImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("%w in directory: %s", ErrNoImages, dirPath)
	}

	return imageFiles, nil
}

// ExpandPaths turns command line inputs into photo locations. URLs and files
// are kept as given; directories are replaced by their images. Input order is
// preserved and duplicates are dropped after their first occurrence.
func ExpandPaths(inputs []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, in := range inputs {
		if in == "" {
			return nil, fmt.Errorf("image path cannot be empty")
		}
		if IsURL(in) {
			add(in)
			continue
		}

		info, err := os.Stat(in)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("image file or directory not found: %s", in)
			}
			return nil, fmt.Errorf("failed to access image path: %w", err)
		}

		if !info.IsDir() {
			add(in)
			continue
		}

		files, err := ScanDirectoryForImages(in)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoImages
	}
	return out, nil
}
