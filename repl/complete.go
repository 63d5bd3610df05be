// Copyright © 2024 The ELPS authors

package repl

import (
	"strings"

	"github.com/luthersystems/prose/prose"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// names bound in a registry.
type symbolCompleter struct {
	registry *prose.Registry
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to a delimiter).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '[' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	var result [][]rune
	for _, name := range c.registry.Names() {
		if strings.HasPrefix(name, prefix) && name != prefix {
			result = append(result, []rune(name[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len([]rune(prefix))
}
