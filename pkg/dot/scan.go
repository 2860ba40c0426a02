package dot

import (
	"bufio"
	"io"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokID            // bare or quoted identifier
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokSemi
	tokComma
	tokEq
	tokArrow // ->
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// scanner tokenizes a graph-description stream, tracking line and column
// for error reporting.
type scanner struct {
	r    *bufio.Reader
	line int
	col  int
}

func newScanner(r io.Reader) *scanner {
	return &scanner{r: bufio.NewReader(r), line: 1, col: 0}
}

func (s *scanner) readRune() (rune, error) {
	c, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if c == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return c, nil
}

func (s *scanner) peek() (rune, error) {
	c, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	_ = s.r.UnreadRune()
	return c, nil
}

// next returns the next token, skipping whitespace and comments.
// At end of input it returns a tokEOF token and a nil error; io errors
// other than EOF are returned as-is.
func (s *scanner) next() (token, error) {
	for {
		c, err := s.readRune()
		if err == io.EOF {
			return token{kind: tokEOF, line: s.line, col: s.col}, nil
		}
		if err != nil {
			return token{}, err
		}

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			continue
		case c == '#':
			if err := s.skipLine(); err != nil {
				return token{}, err
			}
			continue
		case c == '/':
			if err := s.skipComment(); err != nil {
				return token{}, err
			}
			continue
		}

		line, col := s.line, s.col
		switch c {
		case '{':
			return token{tokLBrace, "{", line, col}, nil
		case '}':
			return token{tokRBrace, "}", line, col}, nil
		case '[':
			return token{tokLBracket, "[", line, col}, nil
		case ']':
			return token{tokRBracket, "]", line, col}, nil
		case ';':
			return token{tokSemi, ";", line, col}, nil
		case ',':
			return token{tokComma, ",", line, col}, nil
		case '=':
			return token{tokEq, "=", line, col}, nil
		case '-':
			return s.scanEdgeOp(line, col)
		case '"':
			return s.scanQuoted(line, col)
		}
		if isIDRune(c) {
			return s.scanBare(c, line, col)
		}
		return token{}, syntaxErrf(line, col, "unexpected character %q", c)
	}
}

func (s *scanner) scanEdgeOp(line, col int) (token, error) {
	c, err := s.readRune()
	if err != nil {
		return token{}, syntaxErrf(line, col, "unexpected end of input after %q", "-")
	}
	switch c {
	case '>':
		return token{tokArrow, "->", line, col}, nil
	case '-':
		return token{}, syntaxErrf(line, col, "undirected edges are not supported")
	}
	return token{}, syntaxErrf(line, col, "unexpected character %q after %q", c, "-")
}

// scanQuoted reads a quoted identifier. The surrounding quotes are dropped;
// escaped quotes and backslashes are unescaped, a backslash-newline pair is
// a line continuation, and any other backslash sequence is kept verbatim
// (DOT keeps label escapes such as \n for the renderer to interpret).
func (s *scanner) scanQuoted(line, col int) (token, error) {
	var b strings.Builder
	for {
		c, err := s.readRune()
		if err != nil {
			return token{}, syntaxErrf(line, col, "unterminated quoted string")
		}
		switch c {
		case '"':
			return token{tokID, b.String(), line, col}, nil
		case '\\':
			esc, err := s.readRune()
			if err != nil {
				return token{}, syntaxErrf(line, col, "unterminated quoted string")
			}
			switch esc {
			case '"', '\\':
				b.WriteRune(esc)
			case '\n':
				// line continuation
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(c)
		}
	}
}

func (s *scanner) scanBare(first rune, line, col int) (token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		c, err := s.peek()
		if err == io.EOF || (err == nil && !isIDRune(c)) {
			return token{tokID, b.String(), line, col}, nil
		}
		if err != nil {
			return token{}, err
		}
		c, _ = s.readRune()
		b.WriteRune(c)
	}
}

func (s *scanner) skipLine() error {
	_, err := s.r.ReadString('\n')
	if err == io.EOF {
		return nil
	}
	if err == nil {
		s.line++
		s.col = 0
	}
	return err
}

// skipComment consumes a // or /* */ comment whose leading '/' has already
// been read.
func (s *scanner) skipComment() error {
	c, err := s.readRune()
	if err != nil {
		return syntaxErrf(s.line, s.col, "unexpected end of input after %q", "/")
	}
	switch c {
	case '/':
		return s.skipLine()
	case '*':
		prev := rune(0)
		for {
			c, err := s.readRune()
			if err != nil {
				return syntaxErrf(s.line, s.col, "unterminated block comment")
			}
			if prev == '*' && c == '/' {
				return nil
			}
			prev = c
		}
	}
	return syntaxErrf(s.line, s.col, "unexpected character %q after %q", c, "/")
}

func isIDRune(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.':
		return true
	}
	return false
}
