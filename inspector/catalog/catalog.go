package catalog

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed catalog
type SyntaxError struct {
	Path   string
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// Entry represents one catalog message
type Entry struct {
	Context     string
	ID          string
	Plural      string
	Str         []string // msgstr or msgstr[n] values in index order
	Flags       []string
	Occurrences []string // #: source references
	Line        int      // msgid line
	Obsolete    bool
}

// HasFlag returns true if entry carries flag, i.e. python-format
func (e *Entry) HasFlag(flag string) bool {
	for _, candidate := range e.Flags {
		if candidate == flag {
			return true
		}
	}
	return false
}

// IsHeader returns true for the catalog metadata entry
func (e *Entry) IsHeader() bool {
	return e.ID == "" && e.Context == ""
}

// Translations returns non empty translated strings
func (e *Entry) Translations() []string {
	var result []string
	for _, value := range e.Str {
		if strings.TrimSpace(value) != "" {
			result = append(result, value)
		}
	}
	return result
}

// Catalog represents a parsed .po or .pot file
type Catalog struct {
	Path    string
	Entries []*Entry
}

// Messages returns active, non header entries
func (c *Catalog) Messages() []*Entry {
	var result []*Entry
	for _, entry := range c.Entries {
		if entry.Obsolete || entry.IsHeader() {
			continue
		}
		result = append(result, entry)
	}
	return result
}
