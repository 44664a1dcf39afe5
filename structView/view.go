// Package structView prints the shape of a nested map, one key per line,
// with leaf values previewed on the same line.
package structView

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

const (
	DEFAULT_TAB_WIDTH   = 4
	DEFAULT_PREVIEW_LEN = 50
)

type Options struct {
	TabWidth   int
	PreviewLen int
}

func DefaultOptions() Options {
	return Options{TabWidth: DEFAULT_TAB_WIDTH, PreviewLen: DEFAULT_PREVIEW_LEN}
}

func (o Options) normalized() Options {
	if o.TabWidth < 0 {
		o.TabWidth = 0
	}
	if o.PreviewLen < 0 {
		o.PreviewLen = 0
	}
	return o
}

// entry 一个键及其值：子结构或叶子预览
type entry struct {
	key      string
	children []entry
	leaf     string
	nested   bool
}

// Render walks a map, keys sorted.
func Render(v map[string]any, opts Options) string {
	var sb strings.Builder
	write(&sb, fromMap(v), 0, opts.normalized())
	return sb.String()
}

// RenderYAML renders a YAML mapping document, keeping its key order.
func RenderYAML(doc []byte, opts Options) (string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return "", errorx.Wrap(errorx.Newf(errCode.INVALID_VALUE, "%v", err), "parse yaml")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return "", errorx.New(errCode.INVALID_VALUE, "yaml document is not a mapping")
	}
	var sb strings.Builder
	write(&sb, fromNode(root.Content[0]), 0, opts.normalized())
	return sb.String(), nil
}

func write(sb *strings.Builder, entries []entry, depth int, opts Options) {
	for _, e := range entries {
		if depth > 0 {
			sb.WriteString(strings.Repeat(" ", opts.TabWidth*(depth-1)))
			sb.WriteString(strings.Repeat("-", opts.TabWidth))
		}
		sb.WriteString("|" + e.key + "|")
		if e.nested {
			sb.WriteString("\n")
			write(sb, e.children, depth+1, opts)
			continue
		}
		sb.WriteString(" " + preview(e.leaf, opts.PreviewLen) + "\n")
	}
}

// 去掉换行，超长截断并加 ...
func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", "")
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}

func fromMap(m map[string]any) []entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]entry, 0, len(keys))
	for _, k := range keys {
		switch child := m[k].(type) {
		case map[string]any:
			out = append(out, entry{key: k, nested: true, children: fromMap(child)})
		default:
			out = append(out, entry{key: k, leaf: formatValue(child)})
		}
	}
	return out
}

func fromNode(n *yaml.Node) []entry {
	out := make([]entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		if v.Kind == yaml.MappingNode {
			out = append(out, entry{key: k.Value, nested: true, children: fromNode(v)})
			continue
		}
		out = append(out, entry{key: k.Value, leaf: nodeString(v)})
	}
	return out
}

// 非 map 的值按 [a, b] / {k: v} 的紧凑形式展示
func formatValue(v any) string {
	switch x := v.(type) {
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + formatValue(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case nil:
		return "None"
	default:
		return fmt.Sprint(x)
	}
}

func nodeString(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		parts := make([]string, len(n.Content))
		for i, c := range n.Content {
			parts[i] = nodeString(c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case yaml.MappingNode:
		parts := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			parts = append(parts, n.Content[i].Value+": "+nodeString(n.Content[i+1]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case yaml.AliasNode:
		if n.Alias != nil {
			return nodeString(n.Alias)
		}
		return ""
	default:
		if n.Tag == "!!null" {
			return "None"
		}
		return n.Value
	}
}
