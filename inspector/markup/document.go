package markup

import (
	"fmt"
	"strings"

	"github.com/viant/odoolint/inspector/info"
)

// SyntaxError reports a malformed markup document
type SyntaxError struct {
	Path string
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Reference represents a file referenced from a markup element attribute
type Reference struct {
	Element string // element name, i.e. report
	Attr    string // attribute name, i.e. xml, xsl
	Path    string // path relative to module root
	Line    int
}

// Document represents a parsed markup data file
type Document struct {
	Path       string
	Root       string // root element name
	Records    []*info.Record
	References []Reference
}

// RecordsOf returns records of the given kinds
func (d *Document) RecordsOf(kinds ...info.RecordKind) []*info.Record {
	var result []*info.Record
	for _, record := range d.Records {
		for _, kind := range kinds {
			if record.Kind == kind {
				result = append(result, record)
				break
			}
		}
	}
	return result
}

// stripModule converts module/path/file.xml into path/file.xml when the first segment names the module
func stripModule(module, location string) string {
	location = strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(location), `\`, "/"), "/")
	if module == "" {
		return location
	}
	if rest, ok := strings.CutPrefix(location, module+"/"); ok {
		return rest
	}
	return location
}
