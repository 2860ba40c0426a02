// Package d3arc serializes a graph into the node/link structure consumed
// by the D3 arc-diagram front end.
//
// The output is a JSON-like document with a "nodes" array (id + group) and
// a "links" array (source, target, value). Element order follows the
// graph's enumeration order; the front end does not re-sort, so order is
// part of the format. The byte layout matches the established output of
// the reducer toolchain and must not drift.
package d3arc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
)

// Trim widths for attribute values re-emitted from the graph description.
// CPG exports wrap label values in one quotation mark on each side, and
// file values in one leading quotation mark plus a three-character trailer;
// the serializer strips exactly those delimiters. Values too short to hold
// the delimiters emit as empty.
const (
	labelTrimLead  = 1
	labelTrimTrail = 1
	groupTrimLead  = 1
	groupTrimTrail = 3
)

// EmptyGroup is emitted as the group of a node whose file attribute is
// empty, marking functions with no known file of origin.
const EmptyGroup = "NONE"

type link struct {
	source string
	target string
	value  string
}

// Marshal serializes g into the d3-arc node/link document.
func Marshal(g cpg.Graph) []byte {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	buf.WriteString("  \"nodes\": [\n")
	nodes := g.Nodes()
	for i, n := range nodes {
		label := attrOr(n, cpg.AttrLabel, "")
		file := attrOr(n, cpg.AttrFile, "")
		group := trim(file, groupTrimLead, groupTrimTrail)
		if file == "" {
			group += EmptyGroup
		}
		fmt.Fprintf(&buf, "    {\"id\": \"%s\", \"group\": \"%s\"}",
			trim(label, labelTrimLead, labelTrimTrail), group)
		if i < len(nodes)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("  ],\n")

	var links []link
	for _, n := range nodes {
		source := trim(attrOr(n, cpg.AttrLabel, ""), labelTrimLead, labelTrimTrail)
		for _, e := range g.Out(n) {
			links = append(links, link{
				source: source,
				target: trim(attrOr(e.To(), cpg.AttrLabel, ""), labelTrimLead, labelTrimTrail),
				value:  edgeAttrOr(e, cpg.AttrValue, ""),
			})
		}
	}
	buf.WriteString("  \"links\": [\n")
	for i, l := range links {
		fmt.Fprintf(&buf, "    {\"source\": \"%s\", \"target\": \"%s\", \"value\": \"%s\"}",
			l.source, l.target, l.value)
		if i < len(links)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("  ]\n")

	buf.WriteString("}\n")
	return buf.Bytes()
}

// Write serializes g to w.
func Write(g cpg.Graph, w io.Writer) error {
	if _, err := w.Write(Marshal(g)); err != nil {
		return fmt.Errorf("write d3-arc: %w", err)
	}
	return nil
}

// trim strips lead characters from the front and trail characters from the
// back of s. A value too short to contain both delimiters emits as empty.
func trim(s string, lead, trail int) string {
	if len(s) <= lead+trail {
		return ""
	}
	return s[lead : len(s)-trail]
}

func attrOr(n *cpg.Node, key, fallback string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return fallback
}

func edgeAttrOr(e *cpg.Edge, key, fallback string) string {
	if v, ok := e.Attr(key); ok {
		return v
	}
	return fallback
}
