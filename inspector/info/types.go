package info

import "fmt"

// RecordKind identifies the element or row a record was read from
type RecordKind string

const (
	KindRecord     RecordKind = "record"
	KindTemplate   RecordKind = "template"
	KindMenuItem   RecordKind = "menuitem"
	KindReport     RecordKind = "report"
	KindActWindow  RecordKind = "act_window"
	KindTabularRow RecordKind = "row"
)

// Location represents a position in a module file, Line and Column are 1-based
type Location struct {
	File   string `yaml:"file"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column,omitempty"`
}

// String returns file:line form
func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Before reports whether l sorts before other
func (l Location) Before(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Field represents a named value declared inside a record
type Field struct {
	Name string
	Line int
}

// Record represents an identified element of a structured document
type Record struct {
	Kind     RecordKind
	ID       string
	Model    string
	Section  string // manifest key that declared the origin document
	NoUpdate bool   // nearest ancestor noupdate flag
	File     string // path relative to module root
	Line     int
	Fields   []Field
}

// Location returns record location
func (r *Record) Location() Location {
	return Location{File: r.File, Line: r.Line}
}

// Key returns the duplicate detection key
func (r *Record) Key() RecordKey {
	return RecordKey{Section: r.Section, ID: r.ID, NoUpdate: r.NoUpdate}
}

// RecordKey scopes record identity: the same id in different sections or noupdate modes is distinct
type RecordKey struct {
	Section  string
	ID       string
	NoUpdate bool
}
