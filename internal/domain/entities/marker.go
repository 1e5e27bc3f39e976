package entities

import (
	"fmt"
	"strings"
)

// Marker is a parsed environment marker such as `python_version<"3.7"`.
type Marker struct {
	raw  string
	root markerNode
}

type markerNode interface {
	evaluate(env Environment) bool
	canonical(nested bool) string
}

type markerValue struct {
	variable string
	literal  string
}

func (v markerValue) resolve(env Environment) string {
	if v.variable != "" {
		return env[v.variable]
	}
	return v.literal
}

func (v markerValue) String() string {
	if v.variable != "" {
		return v.variable
	}
	if strings.Contains(v.literal, `"`) {
		return "'" + v.literal + "'"
	}
	return `"` + v.literal + `"`
}

type markerComparison struct {
	left  markerValue
	op    string
	right markerValue
}

type markerBoolean struct {
	op       string // "and" or "or"
	operands []markerNode
}

type markerGroup struct {
	inner markerNode
}

// ParseMarker parses a PEP 508 marker expression.
func ParseMarker(text string) (*Marker, error) {
	tokens, err := tokenizeMarker(text)
	if err != nil {
		return nil, err
	}
	p := &markerParser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidMarker, p.peek().text)
	}
	return &Marker{raw: strings.TrimSpace(text), root: root}, nil
}

// String returns the marker as written.
func (m *Marker) String() string { return m.raw }

// Canonical renders the marker with PEP 508 spacing and double quotes.
func (m *Marker) Canonical() string { return m.root.canonical(false) }

// Evaluate reports whether the marker holds in env.
func (m *Marker) Evaluate(env Environment) bool { return m.root.evaluate(env) }

func (c markerComparison) evaluate(env Environment) bool {
	left, right := c.left.resolve(env), c.right.resolve(env)
	switch c.op {
	case "in":
		return strings.Contains(right, left)
	case "not in":
		return !strings.Contains(right, left)
	}

	if spec, err := ParseSpecifier(c.op + right); err == nil {
		if v, vErr := ParseVersion(left); vErr == nil {
			return SpecifierSet{spec}.Contains(v, true)
		}
	}

	cmp := strings.Compare(left, right)
	switch c.op {
	case "==", "===":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default: // "~=" on non-versions
		return false
	}
}

func (c markerComparison) canonical(bool) string {
	return c.left.String() + " " + c.op + " " + c.right.String()
}

func (b markerBoolean) evaluate(env Environment) bool {
	for _, operand := range b.operands {
		result := operand.evaluate(env)
		if b.op == "and" && !result {
			return false
		}
		if b.op == "or" && result {
			return true
		}
	}
	return b.op == "and"
}

func (b markerBoolean) canonical(bool) string {
	parts := make([]string, 0, len(b.operands))
	for _, operand := range b.operands {
		parts = append(parts, operand.canonical(true))
	}
	return strings.Join(parts, " "+b.op+" ")
}

func (g markerGroup) evaluate(env Environment) bool { return g.inner.evaluate(env) }

func (g markerGroup) canonical(bool) string { return "(" + g.inner.canonical(false) + ")" }

type markerTokenKind int

const (
	tokenVariable markerTokenKind = iota
	tokenString
	tokenOperator
	tokenAnd
	tokenOr
	tokenOpen
	tokenClose
)

type markerToken struct {
	kind markerTokenKind
	text string
}

var markerOperators = []string{"===", "==", "!=", "<=", ">=", "~=", "<", ">"}

func tokenizeMarker(text string) ([]markerToken, error) {
	var tokens []markerToken
	for i := 0; i < len(text); {
		ch := text[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case ch == '(':
			tokens = append(tokens, markerToken{kind: tokenOpen, text: "("})
			i++
		case ch == ')':
			tokens = append(tokens, markerToken{kind: tokenClose, text: ")"})
			i++
		case ch == '\'' || ch == '"':
			end := strings.IndexByte(text[i+1:], ch)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string", ErrInvalidMarker)
			}
			tokens = append(tokens, markerToken{kind: tokenString, text: text[i+1 : i+1+end]})
			i += end + 2
		case strings.ContainsRune("=!<>~", rune(ch)):
			op := matchOperator(text[i:])
			if op == "" {
				return nil, fmt.Errorf("%w: bad operator at %q", ErrInvalidMarker, text[i:])
			}
			tokens = append(tokens, markerToken{kind: tokenOperator, text: op})
			i += len(op)
		case isIdentifierByte(ch):
			start := i
			for i < len(text) && isIdentifierByte(text[i]) {
				i++
			}
			token, err := classifyWord(text[start:i])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidMarker, ch)
		}
	}
	return mergeNotIn(tokens), nil
}

func matchOperator(text string) string {
	for _, op := range markerOperators {
		if strings.HasPrefix(text, op) {
			return op
		}
	}
	return ""
}

func isIdentifierByte(ch byte) bool {
	return ch == '_' || ch == '.' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func classifyWord(word string) (markerToken, error) {
	switch word {
	case "and":
		return markerToken{kind: tokenAnd, text: word}, nil
	case "or":
		return markerToken{kind: tokenOr, text: word}, nil
	case "in", "not":
		return markerToken{kind: tokenOperator, text: word}, nil
	}
	name := canonicalMarkerVariable(word)
	if !markerVariables[name] {
		return markerToken{}, fmt.Errorf("%w: unknown variable %q", ErrInvalidMarker, word)
	}
	return markerToken{kind: tokenVariable, text: name}, nil
}

// mergeNotIn folds the two-word "not in" operator into one token.
func mergeNotIn(tokens []markerToken) []markerToken {
	merged := tokens[:0:0]
	for i := 0; i < len(tokens); i++ {
		if tokens[i].kind == tokenOperator && tokens[i].text == "not" &&
			i+1 < len(tokens) && tokens[i+1].text == "in" {
			merged = append(merged, markerToken{kind: tokenOperator, text: "not in"})
			i++
			continue
		}
		merged = append(merged, tokens[i])
	}
	return merged
}

type markerParser struct {
	tokens []markerToken
	pos    int
}

func (p *markerParser) done() bool { return p.pos >= len(p.tokens) }

func (p *markerParser) peek() markerToken {
	if p.done() {
		return markerToken{kind: -1, text: "end of marker"}
	}
	return p.tokens[p.pos]
}

func (p *markerParser) parseOr() (markerNode, error) {
	return p.parseBoolean(tokenOr, "or", p.parseAnd)
}

func (p *markerParser) parseAnd() (markerNode, error) {
	return p.parseBoolean(tokenAnd, "and", p.parseAtom)
}

func (p *markerParser) parseBoolean(
	kind markerTokenKind, op string, next func() (markerNode, error),
) (markerNode, error) {
	first, err := next()
	if err != nil {
		return nil, err
	}
	operands := []markerNode{first}
	for !p.done() && p.peek().kind == kind {
		p.pos++
		operand, nextErr := next()
		if nextErr != nil {
			return nil, nextErr
		}
		operands = append(operands, operand)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return markerBoolean{op: op, operands: operands}, nil
}

func (p *markerParser) parseAtom() (markerNode, error) {
	if p.peek().kind == tokenOpen {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenClose {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidMarker)
		}
		p.pos++
		return markerGroup{inner: inner}, nil
	}

	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	opToken := p.peek()
	if opToken.kind != tokenOperator || opToken.text == "not" {
		return nil, fmt.Errorf("%w: expected operator, got %q", ErrInvalidMarker, opToken.text)
	}
	p.pos++
	right, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return markerComparison{left: left, op: opToken.text, right: right}, nil
}

func (p *markerParser) parseValue() (markerValue, error) {
	token := p.peek()
	switch token.kind {
	case tokenVariable:
		p.pos++
		return markerValue{variable: token.text}, nil
	case tokenString:
		p.pos++
		return markerValue{literal: token.text}, nil
	default:
		return markerValue{}, fmt.Errorf("%w: expected variable or string, got %q", ErrInvalidMarker, token.text)
	}
}
