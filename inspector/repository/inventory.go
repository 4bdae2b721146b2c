package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Inventory holds files physically present under a module root
type Inventory struct {
	Files   map[string][]string // lower case extension -> sorted paths relative to module root
	Skipped []string            // excluded directories relative to module root, not walked
}

// Paths returns all inventoried paths sorted
func (i *Inventory) Paths() []string {
	var result []string
	for _, files := range i.Files {
		result = append(result, files...)
	}
	sort.Strings(result)
	return result
}

// Of returns paths with the given extensions
func (i *Inventory) Of(extensions ...string) []string {
	var result []string
	for _, ext := range extensions {
		result = append(result, i.Files[strings.ToLower(ext)]...)
	}
	sort.Strings(result)
	return result
}

// Has returns true if path was inventoried
func (i *Inventory) Has(location string) bool {
	files := i.Files[strings.ToLower(path.Ext(location))]
	index := sort.SearchStrings(files, location)
	return index < len(files) && files[index] == location
}

// InSkipped returns true if location falls under an excluded directory
func (i *Inventory) InSkipped(location string) bool {
	for _, dir := range i.Skipped {
		if strings.HasPrefix(location, dir+"/") {
			return true
		}
	}
	return false
}

// BuildInventory lists files under root, directories named in excludedDirs are skipped at any depth
func BuildInventory(ctx context.Context, fs afs.Service, root string, excludedExt, excludedDirs []string) (*Inventory, error) {
	skipDir := toSet(excludedDirs)
	skipExt := map[string]bool{}
	for _, ext := range excludedExt {
		skipExt[strings.ToLower(ext)] = true
	}
	result := &Inventory{Files: map[string][]string{}}
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		relative := path.Join(parent, info.Name())
		if info.IsDir() {
			if skipDir[info.Name()] {
				result.Skipped = append(result.Skipped, relative)
				return false, nil
			}
			return true, nil
		}
		ext := strings.ToLower(path.Ext(info.Name()))
		if skipExt[ext] {
			return true, nil
		}
		result.Files[ext] = append(result.Files[ext], relative)
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed to list module %s: %w", root, err)
	}
	for ext := range result.Files {
		sort.Strings(result.Files[ext])
	}
	sort.Strings(result.Skipped)
	return result, nil
}

func toSet(items []string) map[string]bool {
	result := make(map[string]bool, len(items))
	for _, item := range items {
		result[item] = true
	}
	return result
}
