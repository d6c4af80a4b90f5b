package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// lockFilePrefix marks the owner files Excel leaves next to open workbooks.
const lockFilePrefix = "~$"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds workbooks by extension
type Discovery struct {
	extensions []string
}

// NewDiscovery creates a discovery matching the given extensions, with or
// without leading dot, case-insensitively.
func NewDiscovery(extensions []string) *Discovery {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			normalized = append(normalized, ext)
		}
	}
	return &Discovery{extensions: normalized}
}

// Matches reports whether name is a workbook this discovery accepts.
func (d *Discovery) Matches(name string) bool {
	if strings.HasPrefix(name, lockFilePrefix) {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, allowed := range d.extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FindWorkbooks lists the matching files of dir, descending into
// subdirectories when recursive is set. Results are sorted by path.
func (d *Discovery) FindWorkbooks(dir string, recursive bool) ([]FileInfo, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var found []FileInfo
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Matches(entry.Name()) {
			return nil
		}

		fi, err := entry.Info()
		if err != nil {
			// Removed between listing and stat.
			return nil
		}
		found = append(found, FileInfo{
			Path:    path,
			Name:    entry.Name(),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dir, err)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})
	return found, nil
}
