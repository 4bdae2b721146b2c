package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/odoolint/inspector/manifest"
)

// Detector identifies module root folders
type Detector struct {
	// module root marker files
	markers      []string
	excludedDirs map[string]bool
}

// New creates a module detector
func New(excludedDirs ...string) *Detector {
	return &Detector{
		markers:      manifest.Markers,
		excludedDirs: toSet(excludedDirs),
	}
}

// Detect returns sorted module root URLs found under root, root itself is returned when it holds a marker
func (d *Detector) Detect(ctx context.Context, fs afs.Service, root string) ([]string, error) {
	roots := map[string]bool{}
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !d.excludedDirs[info.Name()], nil
		}
		if d.isMarker(info.Name()) {
			roots[strings.TrimRight(url.Join(baseURL, parent), "/")] = true
		}
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed to detect modules under %s: %w", root, err)
	}
	result := make([]string, 0, len(roots))
	for candidate := range roots {
		result = append(result, candidate)
	}
	sort.Strings(result)
	return result, nil
}

// Marker returns the manifest file name declared under the module top level, empty if none
func (d *Detector) Marker(inventory *Inventory) string {
	for _, marker := range d.markers {
		if inventory.Has(marker) {
			return marker
		}
	}
	return ""
}

func (d *Detector) isMarker(name string) bool {
	for _, marker := range d.markers {
		if name == marker {
			return true
		}
	}
	return false
}
