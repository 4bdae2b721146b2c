package syntax

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/odoolint/inspector/python"
)

func parse(t *testing.T, src string) *python.File {
	t.Helper()
	file, err := python.Parse(context.Background(), "models/a.py", []byte(src))
	require.NoError(t, err)
	t.Cleanup(file.Close)
	return file
}

// find returns the first node whose text equals text
func find(file *python.File, text string) *sitter.Node {
	var result *sitter.Node
	Walk(file.Root(), func(n *sitter.Node) bool {
		if result != nil {
			return false
		}
		if file.Text(n) == text {
			result = n
			return false
		}
		return true
	})
	return result
}

// findKind returns the first node classified as kind
func findKind(file *python.File, kind Kind) *sitter.Node {
	var result *sitter.Node
	Walk(file.Root(), func(n *sitter.Node) bool {
		if result != nil {
			return false
		}
		if Classify(n) == kind {
			result = n
			return false
		}
		return true
	})
	return result
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text   string
		expect Kind
	}{
		{text: `cr.execute(q)`, expect: Call},
		{text: `self._table`, expect: Attribute},
		{text: `"a" % b`, expect: BinaryOperation},
		{text: `"lit"`, expect: String},
		{text: `f"x {y}"`, expect: InterpolatedString},
		{text: `"a" "b"`, expect: ConcatenatedString},
		{text: `42`, expect: Number},
		{text: `None`, expect: Constant},
		{text: `params['id']`, expect: Subscript},
		{text: `(1, 2)`, expect: Sequence},
		{text: `{"k": 1}`, expect: Dictionary},
		{text: `a if c else b`, expect: Conditional},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			file := parse(t, "x = "+tc.text+"\n")
			node := find(file, tc.text)
			require.NotNil(t, node)
			assert.Equal(t, tc.expect, Classify(node))
		})
	}
	for _, kind := range Kinds() {
		assert.NotEqual(t, "unknown", kind.String())
	}
}

func TestCallArguments(t *testing.T) {
	file := parse(t, "requests.get(url, 1, timeout=10, *args, **kw)\n")
	call := findKind(file, Call)
	require.NotNil(t, call)
	args := CallArguments(call, file.Source)
	assert.Len(t, args.Positional, 2)
	assert.Equal(t, "10", Text(args.Keyword("timeout"), file.Source))
	assert.True(t, args.Star)
	assert.True(t, args.DoubleStar)
	assert.Equal(t, "requests.get", Callee(call, file.Source))
	assert.True(t, MatchesCallee("self.env.cr.execute", "cr.execute"))
	assert.False(t, MatchesCallee("self.env.xcr.execute", "cr.execute"))
}

func TestIsConstant(t *testing.T) {
	tests := []struct {
		text   string
		expect bool
	}{
		{text: `"a" + "b" + ("c" + "d")`, expect: true},
		{text: `"a" % (1, "b")`, expect: true},
		{text: `-1`, expect: true},
		{text: `"a" + b`, expect: false},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			file := parse(t, "x = "+tc.text+"\n")
			assert.Equal(t, tc.expect, IsConstant(find(file, tc.text), file.Source))
		})
	}
}

func TestScope_Lookup(t *testing.T) {
	src := `def compute(self, row_id, *args, limit=10, **kw):
    query = "SELECT 1"
    query += " WHERE id = %s" % row_id
    a, b = "x", other
    for item in ["a", "b"]:
        pass
    with open(p) as handle:
        pass
    first = second = "same"
    params['k'] = row_id
    def inner():
        hidden = 1
    return query
`
	file := parse(t, src)
	fn := file.Root().NamedChild(0)
	require.Equal(t, FunctionDefinition, Classify(fn))
	scope := NewScope(fn, file.Source)
	end := uint32(len(src))

	binding, ok := scope.Lookup("row_id", end)
	require.True(t, ok)
	assert.Equal(t, Parameter, binding.Kind)
	for _, name := range []string{"self", "args", "limit", "kw"} {
		_, ok = scope.Lookup(name, end)
		assert.True(t, ok, name)
	}

	binding, ok = scope.Lookup("query", end)
	require.True(t, ok)
	assert.Equal(t, Augment, binding.Kind)
	assert.Equal(t, "+=", binding.Operator)
	previous, ok := scope.Lookup("query", binding.Start)
	require.True(t, ok)
	assert.Equal(t, Assign, previous.Kind)
	assert.Equal(t, `"SELECT 1"`, file.Text(previous.Value))
	_, ok = scope.Lookup("query", previous.Start)
	assert.False(t, ok)

	binding, _ = scope.Lookup("a", end)
	assert.Equal(t, `"x"`, file.Text(binding.Value))
	binding, _ = scope.Lookup("b", end)
	assert.Equal(t, "other", file.Text(binding.Value))

	binding, _ = scope.Lookup("item", end)
	assert.Equal(t, Loop, binding.Kind)
	assert.True(t, strings.HasPrefix(file.Text(binding.Value), "["))

	binding, ok = scope.Lookup("handle", end)
	require.True(t, ok)
	assert.Equal(t, Opaque, binding.Kind)

	binding, _ = scope.Lookup("first", end)
	assert.Equal(t, `"same"`, file.Text(binding.Value))
	_, ok = scope.Lookup("second", end)
	assert.True(t, ok)
	_, ok = scope.Lookup("params['k']", end)
	assert.True(t, ok)

	_, ok = scope.Lookup("hidden", end)
	assert.False(t, ok)
}
