package dot

import (
	"fmt"
	"io"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
)

// Reader decodes graph descriptions from a stream, one graph per call to
// [Reader.Next]. This mirrors how CPG export files are laid out: several
// independent digraph blocks back to back.
type Reader struct {
	s      *scanner
	peeked *token
	err    error // sticky
}

// NewReader creates a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{s: newScanner(r)}
}

// next returns the next token, honoring a single pushed-back token.
// Statements are not required to end in semicolons, so statement parsers
// push back the token that turned out to start the next statement.
func (r *Reader) next() (token, error) {
	if r.peeked != nil {
		t := *r.peeked
		r.peeked = nil
		return t, nil
	}
	return r.s.next()
}

func (r *Reader) pushback(t token) { r.peeked = &t }

// Next decodes and returns the next graph in the stream. It returns io.EOF
// once the stream is exhausted. After any error Next keeps returning that
// error; a partially decoded graph is never returned.
func (r *Reader) Next() (cpg.Graph, error) {
	if r.err != nil {
		return nil, r.err
	}
	g, err := r.decodeGraph()
	if err != nil {
		r.err = err
		return nil, err
	}
	return g, nil
}

// decodeGraph parses: ["strict"] "digraph" [name] "{" stmt* "}".
func (r *Reader) decodeGraph() (*cpg.Memory, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, io.EOF
	}
	if tok.kind != tokID {
		return nil, syntaxErrf(tok.line, tok.col, "expected graph declaration, got %q", tok.text)
	}

	strict := false
	if tok.text == "strict" {
		strict = true
		if tok, err = r.next(); err != nil {
			return nil, err
		}
	}
	switch tok.text {
	case "digraph":
	case "graph":
		return nil, syntaxErrf(tok.line, tok.col, "undirected graphs are not supported")
	default:
		return nil, syntaxErrf(tok.line, tok.col, "expected %q, got %q", "digraph", tok.text)
	}

	tok, err = r.next()
	if err != nil {
		return nil, err
	}
	name := ""
	if tok.kind == tokID {
		name = tok.text
		if tok, err = r.next(); err != nil {
			return nil, err
		}
	}
	if tok.kind != tokLBrace {
		return nil, syntaxErrf(tok.line, tok.col, "expected %q, got %q", "{", tok.text)
	}

	var g *cpg.Memory
	if strict {
		g = cpg.NewStrict(name)
	} else {
		g = cpg.New(name)
	}
	if err := r.decodeBody(g); err != nil {
		return nil, err
	}
	return g, nil
}

// decodeBody parses statements until the closing brace.
func (r *Reader) decodeBody(g *cpg.Memory) error {
	for {
		tok, err := r.next()
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokRBrace:
			return nil
		case tokSemi:
			continue
		case tokEOF:
			return syntaxErrf(tok.line, tok.col, "unexpected end of input, expected %q", "}")
		case tokID:
			if err := r.decodeStatement(g, tok); err != nil {
				return err
			}
		default:
			return syntaxErrf(tok.line, tok.col, "unexpected %q", tok.text)
		}
	}
}

// decodeStatement parses one statement whose first token is id: a default
// attribute statement (graph/node/edge), a graph attribute assignment, a
// node statement, or an edge statement.
func (r *Reader) decodeStatement(g *cpg.Memory, id token) error {
	switch id.text {
	case "node", "edge", "graph":
		attrs, err := r.decodeAttrList()
		if err != nil {
			return err
		}
		for k, v := range attrs {
			switch id.text {
			case "node":
				g.SetNodeDefault(k, v)
			case "edge":
				g.SetEdgeDefault(k, v)
			default:
				// Graph-level attributes (layout hints etc.) are parsed
				// and dropped; the pipeline has no use for them.
			}
		}
		return nil
	case "subgraph":
		return syntaxErrf(id.line, id.col, "subgraphs are not supported")
	}

	tok, err := r.next()
	if err != nil {
		return err
	}
	switch tok.kind {
	case tokEq:
		// Graph attribute assignment: name = value. Parsed and dropped.
		val, err := r.next()
		if err != nil {
			return err
		}
		if val.kind != tokID {
			return syntaxErrf(val.line, val.col, "expected attribute value, got %q", val.text)
		}
		return nil
	case tokArrow:
		return r.decodeEdges(g, id)
	case tokLBracket:
		n, err := g.AddNode(id.text)
		if err != nil {
			return syntaxErrf(id.line, id.col, "node %q: %v", id.text, err)
		}
		attrs, err := r.decodeAttrListBody()
		if err != nil {
			return err
		}
		for k, v := range attrs {
			n.SetAttr(k, v)
		}
		return nil
	case tokSemi, tokID, tokRBrace, tokEOF:
		// Bare node statement; anything but a semicolon starts the next
		// statement (or closes the body) and is handed back.
		if tok.kind != tokSemi {
			r.pushback(tok)
		}
		_, err := g.AddNode(id.text)
		if err != nil {
			return syntaxErrf(id.line, id.col, "node %q: %v", id.text, err)
		}
		return nil
	}
	return syntaxErrf(tok.line, tok.col, "unexpected %q after node %q", tok.text, id.text)
}

// decodeEdges parses an edge chain a -> b [-> c ...] [attrs]. Every
// consecutive pair becomes one edge; a shared attribute list applies to all
// edges in the chain.
func (r *Reader) decodeEdges(g *cpg.Memory, first token) error {
	tail, err := g.AddNode(first.text)
	if err != nil {
		return syntaxErrf(first.line, first.col, "node %q: %v", first.text, err)
	}

	var edges []*cpg.Edge
	for {
		headTok, err := r.next()
		if err != nil {
			return err
		}
		if headTok.kind != tokID {
			return syntaxErrf(headTok.line, headTok.col, "expected node name, got %q", headTok.text)
		}
		head, err := g.AddNode(headTok.text)
		if err != nil {
			return syntaxErrf(headTok.line, headTok.col, "node %q: %v", headTok.text, err)
		}
		e, err := g.AddEdge(tail, head)
		if err != nil {
			return syntaxErrf(headTok.line, headTok.col, "edge %s -> %s: %v", tail.Name(), head.Name(), err)
		}
		edges = append(edges, e)
		tail = head

		tok, err := r.next()
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokArrow:
			continue
		case tokLBracket:
			attrs, err := r.decodeAttrListBody()
			if err != nil {
				return err
			}
			for _, e := range edges {
				for k, v := range attrs {
					e.SetAttr(k, v)
				}
			}
			return nil
		case tokSemi:
			return nil
		case tokID, tokRBrace, tokEOF:
			r.pushback(tok)
			return nil
		default:
			return syntaxErrf(tok.line, tok.col, "unexpected %q after edge", tok.text)
		}
	}
}

// decodeAttrList parses "[ k=v, ... ]" including the opening bracket.
func (r *Reader) decodeAttrList() (cpg.Attributes, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokLBracket {
		return nil, syntaxErrf(tok.line, tok.col, "expected %q, got %q", "[", tok.text)
	}
	return r.decodeAttrListBody()
}

// decodeAttrListBody parses attribute pairs up to the closing bracket,
// assuming the opening bracket was consumed. Consecutive bracket groups
// ("[a=b][c=d]") merge into one attribute set.
func (r *Reader) decodeAttrListBody() (cpg.Attributes, error) {
	attrs := cpg.Attributes{}
	for {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokRBracket:
			// Another bracket group may follow immediately.
			more, err := r.next()
			if err != nil {
				return nil, err
			}
			if more.kind == tokLBracket {
				continue
			}
			if more.kind != tokSemi {
				r.pushback(more)
			}
			return attrs, nil
		case tokComma, tokSemi:
			continue
		case tokID:
			eq, err := r.next()
			if err != nil {
				return nil, err
			}
			if eq.kind != tokEq {
				return nil, syntaxErrf(eq.line, eq.col, "expected %q after attribute %q", "=", tok.text)
			}
			val, err := r.next()
			if err != nil {
				return nil, err
			}
			if val.kind != tokID {
				return nil, syntaxErrf(val.line, val.col, "expected value for attribute %q", tok.text)
			}
			attrs[tok.text] = val.text
		default:
			return nil, syntaxErrf(tok.line, tok.col, "unexpected %q in attribute list", tok.text)
		}
	}
}

// Decode reads every graph remaining in r. It is a convenience for tests
// and callers that need all graphs at once; the pipeline itself processes
// graphs one at a time via [Reader.Next].
func Decode(r io.Reader) ([]cpg.Graph, error) {
	dec := NewReader(r)
	var graphs []cpg.Graph
	for {
		g, err := dec.Next()
		if err == io.EOF {
			return graphs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("graph %d: %w", len(graphs)+1, err)
		}
		graphs = append(graphs, g)
	}
}
