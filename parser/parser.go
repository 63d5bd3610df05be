// Copyright © 2024 The ELPS authors

// Package parser tokenizes prose source text.
//
//	expr    := '(' <expr>* ')' | '[' <expr>* ']' | <string> | <atom> | <comment>
//	string  := '`' [^']* '''
//	atom    := [^[:space:]()\[\];`]+
//	comment := ';' [^\n]*
//
// Parenthesized lists are active, bracketed lists are quoted.  Atoms are
// classified as numbers or symbols by prose.ReadAtom.
package parser

import (
	"fmt"
	"io"

	"github.com/luthersystems/prose/prose"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a new prose.Reader
func NewReader() prose.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]*prose.Val, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	toks, err := Tokenize(b)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", name, err)
	}
	vals := make([]*prose.Val, len(toks))
	for i, tok := range toks {
		vals[i], err = prose.Read(tok)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return vals, nil
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeList
	nodeQuote
	nodeUnmatched
)

var nodeTypeStrings = []string{
	nodeInvalid:   "INVALID",
	nodeTerm:      "TERM",
	nodeList:      "LIST",
	nodeQuote:     "QUOTE",
	nodeUnmatched: "UNMATCHED",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// Tokenize returns the token trees of the top-level forms in text.
func Tokenize(text []byte) ([]*prose.Token, error) {
	var toks []*prose.Token
	s := parsec.NewScanner(text)
	s = s.TrackLineno()
	parser := newParsecParser()
	root, s := parser(s)
	for root != nil {
		tok, err := getToken(root)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", s.Lineno(), err)
		}
		if tok != nil {
			toks = append(toks, tok)
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return nil, fmt.Errorf("%d: unexpected source text possibly starting: %s", s.Lineno(), b)
	}
	return toks, nil
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	str := parsec.Token(`\x60[^']*'`, "STRING")
	atom := parsec.Token(`[^\s()\[\];\x60]+`, "ATOM")
	term := parsec.OrdChoice(astNode(nodeTerm), str, atom)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	list := parsec.And(astNode(nodeList), openP, exprList, closeP)
	quote := parsec.And(astNode(nodeQuote), openB, exprList, closeB)
	listUnmatched := parsec.And(astNode(nodeUnmatched), openP, exprList, parsec.End())
	quoteUnmatched := parsec.And(astNode(nodeUnmatched), openB, exprList, parsec.End())
	expr = parsec.OrdChoice(nil,
		comment,
		term,
		list,
		quote,
		// Error matching cases come last because they have the lowest
		// precedence.
		listUnmatched,
		quoteUnmatched,
	)
	return expr
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newAST(t, nodes)
	}
}

func newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return fmt.Errorf("unexpected term node %T", nodes[0])
		}
		return prose.AtomToken(term.GetValue())
	case nodeList, nodeQuote:
		kind := prose.TokenList
		if typ == nodeQuote {
			kind = prose.TokenQuote
		}
		// We don't want the terminal nodes for the brackets
		tok := &prose.Token{Kind: kind}
		for _, c := range nodes {
			if c, ok := c.(*prose.Token); ok {
				tok.Children = append(tok.Children, c)
			}
		}
		return tok
	case nodeUnmatched:
		open := nodes[0].(*parsec.Terminal)
		rest := open.GetValue()
		for _, c := range nodes[1:] {
			if c, ok := c.(*prose.Token); ok {
				rest += c.String() + " "
			}
		}
		if len(rest) > 10 {
			rest = rest[:10] + "..."
		}
		return fmt.Errorf("unmatched %q starting: %v", open.GetValue(), rest)
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case *parsec.Terminal:
			if node.Name == "COMMENT" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			nodes = []parsec.ParsecNode{node}
			return nodes, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}

func getToken(root parsec.ParsecNode) (*prose.Token, error) {
	nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		// we can be here if there is only a comment
		return nil, nil
	}
	if !ok {
		return nil, nodes[0].(error)
	}
	tok, ok := nodes[0].(*prose.Token)
	if !ok {
		return nil, fmt.Errorf("unexpected node %T", nodes[0])
	}
	return tok, nil
}
