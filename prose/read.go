// Copyright © 2024 The ELPS authors

package prose

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TokenKind distinguishes the nodes of a token tree.
type TokenKind uint8

// Possible TokenKind values
const (
	// TokenAtom is a leaf whose Text is a number, string or symbol.
	TokenAtom TokenKind = iota
	// TokenList is an active list of its Children.
	TokenList
	// TokenQuote is a quoted list of its Children.
	TokenQuote
)

func (k TokenKind) String() string {
	switch k {
	case TokenAtom:
		return "atom"
	case TokenList:
		return "list"
	case TokenQuote:
		return "quote"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// Token is a node in the tree a tokenizer produces from source text.
type Token struct {
	Kind     TokenKind
	Text     string
	Children []*Token
}

// AtomToken returns an atom token with the given text.
func AtomToken(text string) *Token {
	return &Token{Kind: TokenAtom, Text: text}
}

// ListToken returns an active list token.
func ListToken(children ...*Token) *Token {
	return &Token{Kind: TokenList, Children: children}
}

// QuoteToken returns a quoted list token.
func QuoteToken(children ...*Token) *Token {
	return &Token{Kind: TokenQuote, Children: children}
}

func (tok *Token) String() string {
	switch tok.Kind {
	case TokenAtom:
		return tok.Text
	case TokenList, TokenQuote:
		parts := make([]string, len(tok.Children))
		for i, c := range tok.Children {
			parts[i] = c.String()
		}
		if tok.Kind == TokenQuote {
			return "[" + strings.Join(parts, " ") + "]"
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return tok.Kind.String()
	}
}

var numberRegexp = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Read converts a token tree into a value.  Lists without children read as
// the EmptyList.  The quoted flag is set throughout quoted lists.
func Read(tok *Token) (*Val, error) {
	if tok == nil {
		return nil, fmt.Errorf("nil token")
	}
	switch tok.Kind {
	case TokenAtom:
		return ReadAtom(tok.Text)
	case TokenList, TokenQuote:
		vals := make([]*Val, len(tok.Children))
		for i, c := range tok.Children {
			v, err := Read(c)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		lis := List(vals...)
		if tok.Kind == TokenQuote {
			return Quote(lis), nil
		}
		return lis, nil
	default:
		return nil, fmt.Errorf("invalid token kind: %v", tok.Kind)
	}
}

// ReadAtom converts the text of an atom token into a number, string or
// symbol.
func ReadAtom(text string) (*Val, error) {
	if text == "" {
		return nil, fmt.Errorf("empty atom")
	}
	if numberRegexp.MatchString(text) {
		x, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", text, err)
		}
		return NumberLiteral(text, x), nil
	}
	if len(text) >= 2 && strings.HasPrefix(text, "`") && strings.HasSuffix(text, "'") {
		return String(text[1 : len(text)-1]), nil
	}
	return Symbol(text), nil
}
