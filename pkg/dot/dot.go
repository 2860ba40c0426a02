// Package dot reads and writes the graph-description subset used by CPG
// exports.
//
// A description file holds one or more back-to-back digraph blocks:
//
//	digraph "kernel" {
//	    node [file="", label=""];
//	    "a" [file="\"f1.c\"x", label="\"a\""];
//	    "a" -> "b" [value="3"];
//	}
//
// [Reader.Next] decodes one graph at a time so multi-graph files can be
// processed sequentially with a single graph alive at once. The decoder
// supports node and edge statements with attribute lists, default attribute
// statements (graph/node/edge), quoted identifiers with escapes, and DOT
// comments. Subgraphs, ports, HTML strings, and undirected graphs are
// outside the CPG subset and are rejected with a positioned error.
package dot

import "fmt"

// SyntaxError describes a malformed graph description, with the 1-based
// line and column where decoding failed.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func syntaxErrf(line, col int, format string, args ...any) error {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}
