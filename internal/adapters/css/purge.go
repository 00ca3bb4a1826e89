package css

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Purger = (*Purger)(nil)

// groupingAtRules contain rules that are purged recursively. Every other
// block at-rule (@keyframes, @font-face, @page, ...) is kept verbatim.
var groupingAtRules = map[string]bool{
	"@media":     true,
	"@supports":  true,
	"@container": true,
	"@layer":     true,
	"@document":  true,
}

// Purger implements ports.Purger over the tdewolff CSS tokenizer.
type Purger struct{}

// NewPurger creates a new Purger.
func NewPurger() *Purger {
	return &Purger{}
}

type nodeKind uint8

const (
	ruleNode nodeKind = iota
	blockAtNode
	atNode
	declNode
	rawNode
)

type node struct {
	kind      nodeKind
	name      string
	prelude   string
	selectors [][]cssparse.Token
	children  []*node
}

// Purge drops qualified rules whose selectors all reference a class, id or
// tag missing from tokens. A selector list keeps only its used selectors.
// Safelist entries are names, or regular expressions when wrapped in slashes.
func (p *Purger) Purge(css []byte, tokens map[string]struct{}, safelist []string) ([]byte, error) {
	used, err := newUsage(tokens, safelist)
	if err != nil {
		return nil, err
	}

	root, err := parseTree(css)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	for _, n := range filterNodes(root, used) {
		writeNode(&out, n)
	}
	return out.Bytes(), nil
}

type usage struct {
	names    map[string]struct{}
	patterns []*regexp.Regexp
}

func newUsage(tokens map[string]struct{}, safelist []string) (*usage, error) {
	u := &usage{names: make(map[string]struct{}, len(tokens)+len(safelist))}
	for t := range tokens {
		u.names[t] = struct{}{}
	}
	for _, entry := range safelist {
		if len(entry) > 2 && strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/") {
			re, err := regexp.Compile(entry[1 : len(entry)-1])
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrConfig.Error()), "safelist", entry)
			}
			u.patterns = append(u.patterns, re)
			continue
		}
		u.names[strings.TrimLeft(entry, ".#")] = struct{}{}
	}
	return u, nil
}

func (u *usage) has(name string) bool {
	if _, ok := u.names[name]; ok {
		return true
	}
	for _, re := range u.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// parseTree builds a rule tree from the token stream.
func parseTree(css []byte) ([]*node, error) {
	p := cssparse.NewParser(parse.NewInput(bytes.NewReader(css)), false)

	root := &node{kind: blockAtNode}
	stack := []*node{root}
	var pending [][]cssparse.Token

	top := func() *node { return stack[len(stack)-1] }

	for {
		gt, _, data := p.Next()
		switch gt {
		case cssparse.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) {
				return root.children, nil
			}
			var perr *parse.Error
			if errors.As(p.Err(), &perr) {
				// recoverable: keep the offending tokens as they are
				top().children = append(top().children, &node{kind: rawNode, name: string(data) + joinTokens(p.Values())})
				continue
			}
			return nil, zerr.Wrap(p.Err(), domain.ErrSourceSyntax.Error())

		case cssparse.CommentGrammar:
			if bytes.HasPrefix(data, []byte("/*!")) {
				top().children = append(top().children, &node{kind: rawNode, name: string(data)})
			}

		case cssparse.AtRuleGrammar:
			top().children = append(top().children, &node{kind: atNode, name: string(data), prelude: joinTokens(p.Values())})

		case cssparse.BeginAtRuleGrammar:
			n := &node{kind: blockAtNode, name: strings.ToLower(string(data)), prelude: joinTokens(p.Values())}
			top().children = append(top().children, n)
			stack = append(stack, n)

		case cssparse.QualifiedRuleGrammar:
			pending = append(pending, splitSelectors(p.Values())...)

		case cssparse.BeginRulesetGrammar:
			n := &node{kind: ruleNode, selectors: append(pending, splitSelectors(p.Values())...)}
			pending = nil
			top().children = append(top().children, n)
			stack = append(stack, n)

		case cssparse.EndRulesetGrammar, cssparse.EndAtRuleGrammar:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}

		case cssparse.DeclarationGrammar, cssparse.CustomPropertyGrammar:
			top().children = append(top().children, &node{kind: declNode, name: string(data), prelude: joinTokens(p.Values())})
		}
	}
}

// splitSelectors splits a selector list on top-level commas.
func splitSelectors(values []cssparse.Token) [][]cssparse.Token {
	var out [][]cssparse.Token
	var cur []cssparse.Token
	depth := 0
	for _, v := range values {
		switch v.TokenType {
		case cssparse.FunctionToken, cssparse.LeftParenthesisToken, cssparse.LeftBracketToken:
			depth++
		case cssparse.RightParenthesisToken, cssparse.RightBracketToken:
			depth--
		case cssparse.CommaToken:
			if depth == 0 {
				out = append(out, trimWhitespace(cur))
				cur = nil
				continue
			}
		}
		cur = append(cur, v)
	}
	if len(cur) > 0 {
		out = append(out, trimWhitespace(cur))
	}
	return out
}

func trimWhitespace(tokens []cssparse.Token) []cssparse.Token {
	for len(tokens) > 0 && tokens[0].TokenType == cssparse.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == cssparse.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// filterNodes returns the nodes of a grouping container that survive.
func filterNodes(nodes []*node, used *usage) []*node {
	kept := make([]*node, 0, len(nodes))
	for _, n := range nodes {
		switch n.kind {
		case ruleNode:
			var selectors [][]cssparse.Token
			for _, sel := range n.selectors {
				if selectorUsed(sel, used) {
					selectors = append(selectors, sel)
				}
			}
			if len(selectors) == 0 {
				continue
			}
			n.selectors = selectors
		case blockAtNode:
			if groupingAtRules[n.name] {
				n.children = filterNodes(n.children, used)
				if !hasRules(n.children) {
					continue
				}
			}
		}
		kept = append(kept, n)
	}
	return kept
}

func hasRules(nodes []*node) bool {
	for _, n := range nodes {
		if n.kind == ruleNode || n.kind == blockAtNode {
			return true
		}
	}
	return false
}

// selectorUsed reports whether every class, id and tag in sel is used.
// Attribute selectors, pseudo-classes and the universal selector never
// remove a selector.
func selectorUsed(sel []cssparse.Token, used *usage) bool {
	for i := 0; i < len(sel); i++ {
		tok := sel[i]
		switch tok.TokenType {
		case cssparse.LeftBracketToken:
			i = skipTo(sel, i, cssparse.RightBracketToken)
		case cssparse.FunctionToken:
			i = skipTo(sel, i, cssparse.RightParenthesisToken)
		case cssparse.ColonToken:
			if i+1 < len(sel) && sel[i+1].TokenType == cssparse.IdentToken {
				i++
			}
		case cssparse.HashToken:
			if !used.has(unescape(string(tok.Data[1:]))) {
				return false
			}
		case cssparse.DelimToken:
			if tok.Data[0] == '.' && i+1 < len(sel) && sel[i+1].TokenType == cssparse.IdentToken {
				i++
				if !used.has(unescape(string(sel[i].Data))) {
					return false
				}
			}
		case cssparse.IdentToken:
			if !used.has(strings.ToLower(string(tok.Data))) {
				return false
			}
		}
	}
	return true
}

// skipTo returns the index of the token closing the group opened at i.
func skipTo(sel []cssparse.Token, i int, closing cssparse.TokenType) int {
	depth := 0
	for j := i; j < len(sel); j++ {
		switch sel[j].TokenType {
		case cssparse.FunctionToken, cssparse.LeftParenthesisToken, cssparse.LeftBracketToken:
			depth++
		case cssparse.RightParenthesisToken, cssparse.RightBracketToken:
			depth--
			if depth == 0 && sel[j].TokenType == closing {
				return j
			}
		}
	}
	return len(sel) - 1
}

// unescape drops CSS escape backslashes, so ".md\:flex" matches "md:flex".
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func joinTokens(tokens []cssparse.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

func writeNode(w *bytes.Buffer, n *node) {
	switch n.kind {
	case rawNode:
		w.WriteString(n.name)
	case declNode:
		w.WriteString(n.name)
		w.WriteByte(':')
		w.WriteString(n.prelude)
		w.WriteByte(';')
	case atNode:
		w.WriteString(n.name)
		if n.prelude != "" {
			w.WriteByte(' ')
			w.WriteString(n.prelude)
		}
		w.WriteByte(';')
	case blockAtNode:
		w.WriteString(n.name)
		if n.prelude != "" {
			w.WriteByte(' ')
			w.WriteString(n.prelude)
		}
		w.WriteByte('{')
		for _, c := range n.children {
			writeNode(w, c)
		}
		w.WriteByte('}')
	case ruleNode:
		for i, sel := range n.selectors {
			if i > 0 {
				w.WriteByte(',')
			}
			w.WriteString(joinTokens(sel))
		}
		w.WriteByte('{')
		for _, c := range n.children {
			writeNode(w, c)
		}
		w.WriteByte('}')
	}
	w.WriteByte('\n')
}
