// Package fixture materializes txtar archives into module trees for tests
package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// Write extracts archive files under dir
func Write(dir string, archive *txtar.Archive) error {
	for _, file := range archive.Files {
		location := filepath.Join(dir, filepath.FromSlash(file.Name))
		if err := os.MkdirAll(filepath.Dir(location), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(location, file.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Tree parses txtar text and writes it into a fresh temporary directory
func Tree(t testing.TB, text string) string {
	t.Helper()
	dir := t.TempDir()
	if err := Write(dir, txtar.Parse([]byte(text))); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return dir
}
