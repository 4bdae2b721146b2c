package manifest

import "strings"

// ValueKind represents the python literal kind of a manifest value
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindNone
	KindList
	KindDict
)

var kindNames = [...]string{"string", "number", "bool", "None", "list", "dict"}

func (k ValueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value represents an evaluated manifest literal
type Value struct {
	Kind    ValueKind
	Text    string   // string value, number or bool source text
	Items   []*Value // list or tuple items
	Keys    []string // dict keys in declaration order
	Entries map[string]*Value
	Line    int
}

// IsString returns true for string values
func (v *Value) IsString() bool {
	return v != nil && v.Kind == KindString
}

// Strings returns string items of a list and false if any item is not a string
func (v *Value) Strings() ([]string, bool) {
	if v == nil || v.Kind != KindList {
		return nil, false
	}
	result := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		if item.Kind != KindString {
			return nil, false
		}
		result = append(result, item.Text)
	}
	return result, true
}

// Get returns dict entry
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindDict {
		return nil
	}
	return v.Entries[key]
}

// Truthy returns python truthiness of a literal
func (v *Value) Truthy() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Text != ""
	case KindNumber:
		return strings.Trim(v.Text, "0._") != ""
	case KindBool:
		return v.Text == "True"
	case KindList:
		return len(v.Items) > 0
	case KindDict:
		return len(v.Keys) > 0
	}
	return false
}
