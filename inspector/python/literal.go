package python

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// StringLiteral represents a decoded python string literal
type StringLiteral struct {
	Value        string
	Raw          bool
	Bytes        bool
	Interpolated bool // f-string or contains interpolation
}

// DecodeString decodes string and concatenated_string nodes
func DecodeString(n *sitter.Node, src []byte) (StringLiteral, bool) {
	if n == nil {
		return StringLiteral{}, false
	}
	switch n.Type() {
	case "string":
		return decodeStringNode(n, src)
	case "concatenated_string":
		var result StringLiteral
		builder := strings.Builder{}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() != "string" {
				continue
			}
			part, ok := decodeStringNode(child, src)
			if !ok {
				return StringLiteral{}, false
			}
			builder.WriteString(part.Value)
			result.Interpolated = result.Interpolated || part.Interpolated
			result.Bytes = result.Bytes || part.Bytes
		}
		result.Value = builder.String()
		return result, true
	}
	return StringLiteral{}, false
}

// Interpolations returns expressions interpolated by an f-string node
func Interpolations(n *sitter.Node) []*sitter.Node {
	var result []*sitter.Node
	if n == nil {
		return nil
	}
	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "interpolation":
				expr := child.ChildByFieldName("expression")
				if expr == nil && child.NamedChildCount() > 0 {
					expr = child.NamedChild(0)
				}
				if expr != nil {
					result = append(result, expr)
				}
			case "string":
				visit(child)
			}
		}
	}
	visit(n)
	return result
}

func decodeStringNode(n *sitter.Node, src []byte) (StringLiteral, bool) {
	text := n.Content(src)
	prefixEnd := 0
	for prefixEnd < len(text) && strings.ContainsRune("rRbBuUfF", rune(text[prefixEnd])) {
		prefixEnd++
	}
	prefix := strings.ToLower(text[:prefixEnd])
	body := text[prefixEnd:]
	quote := ""
	for _, candidate := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(body, candidate) && strings.HasSuffix(body, candidate) && len(body) >= 2*len(candidate) {
			quote = candidate
			break
		}
	}
	if quote == "" {
		return StringLiteral{}, false
	}
	body = body[len(quote) : len(body)-len(quote)]
	result := StringLiteral{
		Raw:   strings.Contains(prefix, "r"),
		Bytes: strings.Contains(prefix, "b"),
	}
	result.Interpolated = strings.Contains(prefix, "f") || hasInterpolation(n)
	if result.Raw {
		result.Value = body
	} else {
		result.Value = unescape(body, result.Bytes)
	}
	return result, true
}

func hasInterpolation(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "interpolation" {
			return true
		}
	}
	return false
}

func unescape(body string, bytes bool) string {
	if !strings.Contains(body, `\`) {
		return body
	}
	builder := strings.Builder{}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			builder.WriteByte(c)
			continue
		}
		i++
		next := body[i]
		switch next {
		case '\n':
		case '\\', '\'', '"':
			builder.WriteByte(next)
		case 'n':
			builder.WriteByte('\n')
		case 't':
			builder.WriteByte('\t')
		case 'r':
			builder.WriteByte('\r')
		case 'a':
			builder.WriteByte('\a')
		case 'b':
			builder.WriteByte('\b')
		case 'f':
			builder.WriteByte('\f')
		case 'v':
			builder.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 1
			for end < len(body) && end < i+3 && body[end] >= '0' && body[end] <= '7' {
				end++
			}
			value, _ := strconv.ParseUint(body[i:end], 8, 32)
			builder.WriteRune(rune(value))
			i = end - 1
		case 'x':
			if i+2 < len(body) {
				if value, err := strconv.ParseUint(body[i+1:i+3], 16, 32); err == nil {
					builder.WriteRune(rune(value))
					i += 2
					continue
				}
			}
			builder.WriteString(`\x`)
		case 'u', 'U':
			size := 4
			if next == 'U' {
				size = 8
			}
			if !bytes && i+size < len(body) {
				if value, err := strconv.ParseUint(body[i+1:i+1+size], 16, 32); err == nil {
					builder.WriteRune(rune(value))
					i += size
					continue
				}
			}
			builder.WriteByte('\\')
			builder.WriteByte(next)
		default:
			builder.WriteByte('\\')
			builder.WriteByte(next)
		}
	}
	return builder.String()
}
