package placeholder

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Style identifies the substitution syntax of a template
type Style int

const (
	// Printf uses %s, %(name)s markers substituted by the % operator
	Printf Style = iota
	// Format uses {}, {0}, {name} markers substituted by str.format
	Format
)

func (s Style) String() string {
	if s == Format {
		return "format"
	}
	return "printf"
}

var (
	// ErrMixedStyle is returned when a template holds both printf and format markers
	ErrMixedStyle = errors.New("mixed printf and format placeholders")
	// ErrMixedPrintf is returned when named and unnamed printf markers are combined
	ErrMixedPrintf = errors.New("mixed named and positional printf placeholders")
	// ErrMixedNumbering is returned when automatic and manual format field numbering are combined
	ErrMixedNumbering = errors.New("mixed automatic and manual field numbering")
)

// TruncatedError reports a template ending inside a conversion specifier
type TruncatedError struct {
	Index int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("incomplete format at index %d", e.Index)
}

// UnsupportedCharError reports an unknown printf conversion character
type UnsupportedCharError struct {
	Char  rune
	Index int
}

func (e *UnsupportedCharError) Error() string {
	return fmt.Sprintf("unsupported format character %q at index %d", e.Char, e.Index)
}

// Slot represents one substitution marker
type Slot struct {
	Text       string // marker as written, i.e. %(name)s or {0}
	Name       string // empty for unnamed slots
	Index      int    // explicit format field index, -1 otherwise
	Conversion byte   // printf conversion, 0 for format style
	Offset     int
}

// IsNamed returns true for slots that can be reordered by translators
func (s Slot) IsNamed() bool {
	return s.Name != "" || s.Index >= 0
}

// Signature describes the substitution values a template expects
type Signature struct {
	Style Style
	Slots []Slot
}

// Unnamed returns the number of slots consumed in order, star width and precision included
func (s *Signature) Unnamed() int {
	count := 0
	for _, slot := range s.Slots {
		if !slot.IsNamed() {
			count++
		}
	}
	return count
}

// Names returns sorted distinct slot names
func (s *Signature) Names() []string {
	var result []string
	seen := map[string]bool{}
	for _, slot := range s.Slots {
		if slot.Name == "" || seen[slot.Name] {
			continue
		}
		seen[slot.Name] = true
		result = append(result, slot.Name)
	}
	sort.Strings(result)
	return result
}

// Positional returns the number of positional values required
func (s *Signature) Positional() int {
	count := s.Unnamed()
	for _, slot := range s.Slots {
		if slot.Index >= count {
			count = slot.Index + 1
		}
	}
	return count
}

// IsMapping returns true if a printf signature requires a mapping
func (s *Signature) IsMapping() bool {
	return s.Style == Printf && len(s.Names()) > 0
}

// IsEmpty returns true when template has no substitution marker
func (s *Signature) IsEmpty() bool {
	return len(s.Slots) == 0
}

// Describe returns a compact representation used in messages
func (s *Signature) Describe() string {
	if s.IsEmpty() {
		return "none"
	}
	if names := s.Names(); len(names) > 0 {
		return strings.Join(names, ", ")
	}
	var markers []string
	for _, slot := range s.Slots {
		markers = append(markers, slot.Text)
	}
	return strings.Join(markers, ", ")
}

// Equal returns true when both signatures accept the same substitution values
func (s *Signature) Equal(other *Signature) bool {
	if s.Style != other.Style || s.Positional() != other.Positional() {
		return false
	}
	names, otherNames := s.Names(), other.Names()
	if len(names) != len(otherNames) {
		return false
	}
	for i := range names {
		if names[i] != otherNames[i] {
			return false
		}
	}
	return true
}

// Derive parses template in the given style.
// A template also holding markers of the other style returns ErrMixedStyle.
func Derive(template string, style Style) (*Signature, error) {
	if style == Format {
		slots, err := scanFormat(template)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 && hasPrintf(template) {
			return nil, ErrMixedStyle
		}
		return &Signature{Style: Format, Slots: slots}, nil
	}
	slots, err := scanPrintf(template)
	if err != nil {
		return nil, err
	}
	if len(slots) > 0 && hasFormat(template) {
		return nil, ErrMixedStyle
	}
	return &Signature{Style: Printf, Slots: slots}, nil
}

const (
	printfFlags       = "#0- +"
	printfLength      = "hlL"
	printfConversions = "diouxXeEfFgGcrsa"
)

func scanPrintf(template string) ([]Slot, error) {
	var slots []Slot
	named, unnamed := false, false
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		start := i
		i++
		if i >= len(template) {
			return nil, &TruncatedError{Index: start}
		}
		if template[i] == '%' {
			continue
		}
		slot := Slot{Index: -1, Offset: start}
		if template[i] == '(' {
			end := strings.IndexByte(template[i:], ')')
			if end == -1 {
				return nil, &TruncatedError{Index: start}
			}
			slot.Name = template[i+1 : i+end]
			i += end + 1
		}
		for i < len(template) && strings.IndexByte(printfFlags, template[i]) != -1 {
			i++
		}
		var stars []Slot
		if i < len(template) && template[i] == '*' {
			stars = append(stars, Slot{Text: "*", Index: -1, Offset: i})
			i++
		} else {
			for i < len(template) && isDigit(template[i]) {
				i++
			}
		}
		if i < len(template) && template[i] == '.' {
			i++
			if i < len(template) && template[i] == '*' {
				stars = append(stars, Slot{Text: "*", Index: -1, Offset: i})
				i++
			} else {
				for i < len(template) && isDigit(template[i]) {
					i++
				}
			}
		}
		for i < len(template) && strings.IndexByte(printfLength, template[i]) != -1 {
			i++
		}
		if i >= len(template) {
			return nil, &TruncatedError{Index: start}
		}
		if strings.IndexByte(printfConversions, template[i]) == -1 {
			char, _ := utf8.DecodeRuneInString(template[i:])
			return nil, &UnsupportedCharError{Char: char, Index: i}
		}
		slot.Conversion = template[i]
		slot.Text = template[start : i+1]
		if slot.Name != "" {
			named = true
		} else {
			unnamed = true
		}
		if len(stars) > 0 {
			unnamed = true
		}
		slots = append(slots, stars...)
		slots = append(slots, slot)
	}
	if named && unnamed {
		return nil, ErrMixedPrintf
	}
	return slots, nil
}

func scanFormat(template string) ([]Slot, error) {
	slots, err := scanFields(template, 0)
	if err != nil {
		return nil, err
	}
	auto, manual := false, false
	for _, slot := range slots {
		switch {
		case slot.Index >= 0:
			manual = true
		case slot.Name == "":
			auto = true
		}
	}
	if auto && manual {
		return nil, ErrMixedNumbering
	}
	return slots, nil
}

// scanFields collects replacement fields, fields nested in a format spec included
func scanFields(template string, offset int) ([]Slot, error) {
	var slots []Slot
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
			}
			continue
		case '{':
		default:
			continue
		}
		if i+1 < len(template) && template[i+1] == '{' {
			i++
			continue
		}
		end := closingBrace(template, i)
		if end == -1 {
			return nil, &TruncatedError{Index: offset + i}
		}
		field := template[i+1 : end]
		slot := Slot{Text: template[i : end+1], Index: -1, Offset: offset + i}
		name, spec := field, ""
		if index := strings.IndexAny(name, "!:"); index != -1 {
			name, spec = name[:index], name[index:]
		}
		if index := strings.IndexAny(name, ".["); index != -1 {
			name = name[:index]
		}
		switch {
		case name == "":
		case isNumber(name):
			slot.Index, _ = strconv.Atoi(name)
		default:
			slot.Name = name
		}
		slots = append(slots, slot)
		if spec != "" {
			nested, err := scanFields(spec, offset+i+1+len(field)-len(spec))
			if err != nil {
				return nil, err
			}
			slots = append(slots, nested...)
		}
		i = end
	}
	return slots, nil
}

// closingBrace returns index of brace closing the field opened at start, nested format specs included
func closingBrace(template string, start int) int {
	depth := 0
	for i := start; i < len(template); i++ {
		switch template[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func hasPrintf(template string) bool {
	slots, err := scanPrintf(template)
	return err == nil && len(slots) > 0
}

// hasFormat returns true if template holds a well formed format field
func hasFormat(template string) bool {
	slots, err := scanFormat(template)
	if err != nil {
		return false
	}
	for _, slot := range slots {
		if slot.Name == "" || isIdentifier(slot.Name) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNumber(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) {
			return false
		}
	}
	return true
}

func isIdentifier(text string) bool {
	for i, r := range text {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return text != ""
}
