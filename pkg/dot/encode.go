package dot

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
)

// Marshal encodes a graph as a DOT digraph block. Nodes and edges are
// emitted in enumeration order and attributes in sorted key order, so the
// output is deterministic for a given graph; the pipeline hashes it for
// cache keys.
func Marshal(g cpg.Graph) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(g.Name()))

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %s%s;\n", quote(n.Name()), attrList(n, cpg.AttrFile, cpg.AttrLabel))
	}
	for _, n := range g.Nodes() {
		for _, e := range g.Out(n) {
			fmt.Fprintf(&buf, "  %s -> %s%s;\n",
				quote(e.From().Name()), quote(e.To().Name()), attrList(e, cpg.AttrValue))
		}
	}

	buf.WriteString("}\n")
	return buf.Bytes()
}

// Encode writes the DOT encoding of g to w.
func Encode(g cpg.Graph, w io.Writer) error {
	if _, err := w.Write(Marshal(g)); err != nil {
		return fmt.Errorf("encode %s: %w", g.Name(), err)
	}
	return nil
}

// attributed is the attribute surface shared by nodes and edges.
type attributed interface {
	Attr(key string) (string, bool)
}

// attrList formats the known attribute keys present on the entity as a
// bracketed DOT attribute list, or returns an empty string.
func attrList(a attributed, keys ...string) string {
	present := map[string]string{}
	for _, k := range keys {
		if v, ok := a.Attr(k); ok {
			present[k] = v
		}
	}
	if len(present) == 0 {
		return ""
	}
	parts := make([]string, 0, len(present))
	for _, k := range slices.Sorted(maps.Keys(present)) {
		parts = append(parts, fmt.Sprintf("%s=%s", k, quote(present[k])))
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

// quote wraps s in DOT double quotes, escaping embedded quotes and
// backslashes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
