package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Evaluator is a small, dependency-free condition evaluator used for
// conditional requiredness and presentation rules.
//
// Supported forms:
//   - truthiness: `inStock`, `!inStock`
//   - comparison: `category == "Electronics"`, `quantity != 0`, `x == null`
//   - composition: `a == true && b != false`, `a || b`, parentheses
//
// Identifiers resolve against visibility.Context.Values (dot or slash path
// traversal) and, under the `extras.` prefix, visibility.Context.Extras.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

func (e *Evaluator) Eval(rule string, ctx visibility.Context) (bool, error) {
	pred, err := compile(rule)
	if err != nil {
		return false, err
	}
	if pred == nil {
		return true, nil
	}
	return pred(ctx)
}

// predicate is a compiled condition. Expressions compile to closures rather
// than an AST since nothing ever inspects the tree after parsing.
type predicate func(visibility.Context) (bool, error)

// compile returns nil (no error) for a blank rule, which callers treat as
// always true.
func compile(rule string) (predicate, error) {
	p := &parser{lex: lexer{src: rule}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.sym == symEOF {
		return nil, nil
	}
	pred, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	if p.cur.sym != symEOF {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", p.cur.text)
	}
	return pred, nil
}

type symbol int

const (
	symEOF symbol = iota
	symIdent
	symString
	symNumber
	symBool
	symNull
	symEq
	symNe
	symBang
	symAnd
	symOr
	symOpen
	symClose
)

type token struct {
	sym  symbol
	text string
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{sym: symEOF}, nil
	}

	ch := l.src[l.pos]
	switch ch {
	case '(':
		l.pos++
		return token{sym: symOpen, text: "("}, nil
	case ')':
		l.pos++
		return token{sym: symClose, text: ")"}, nil
	case '!':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{sym: symNe, text: "!="}, nil
		}
		return token{sym: symBang, text: "!"}, nil
	case '=':
		if !strings.HasPrefix(l.src[l.pos:], "==") {
			return token{}, errors.New("visibility/expr: unexpected '='; use '=='")
		}
		l.pos += 2
		return token{sym: symEq, text: "=="}, nil
	case '&':
		if !strings.HasPrefix(l.src[l.pos:], "&&") {
			return token{}, errors.New("visibility/expr: unexpected '&'; use '&&'")
		}
		l.pos += 2
		return token{sym: symAnd, text: "&&"}, nil
	case '|':
		if !strings.HasPrefix(l.src[l.pos:], "||") {
			return token{}, errors.New("visibility/expr: unexpected '|'; use '||'")
		}
		l.pos += 2
		return token{sym: symOr, text: "||"}, nil
	case '"', '\'':
		return l.scanString(ch)
	default:
		return l.scanWord(), nil
	}
}

// scanString reads a quoted literal. A backslash escapes the following
// character verbatim.
func (l *lexer) scanString(quote byte) (token, error) {
	l.pos++
	var out strings.Builder
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		l.pos++
		switch ch {
		case '\\':
			if l.pos >= len(l.src) {
				return token{}, errors.New("visibility/expr: unterminated string literal")
			}
			out.WriteByte(l.src[l.pos])
			l.pos++
		case quote:
			return token{sym: symString, text: out.String()}, nil
		default:
			out.WriteByte(ch)
		}
	}
	return token{}, errors.New("visibility/expr: unterminated string literal")
}

func (l *lexer) scanWord() token {
	start := l.pos
	for l.pos < len(l.src) && !isSpace(l.src[l.pos]) && !strings.ContainsRune("()!=&|", rune(l.src[l.pos])) {
		l.pos++
	}
	word := l.src[start:l.pos]
	switch strings.ToLower(word) {
	case "true", "false":
		return token{sym: symBool, text: strings.ToLower(word)}
	case "null", "nil":
		return token{sym: symNull, text: "null"}
	}
	if ch := word[0]; (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' {
		return token{sym: symNumber, text: word}
	}
	return token{sym: symIdent, text: word}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

type parser struct {
	lex lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) accept(sym symbol) (bool, error) {
	if p.cur.sym != sym {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) disjunction() (predicate, error) {
	left, err := p.conjunction()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.accept(symOr)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.conjunction()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(ctx visibility.Context) (bool, error) {
			hit, err := l(ctx)
			if err != nil || hit {
				return hit, err
			}
			return r(ctx)
		}
	}
}

func (p *parser) conjunction() (predicate, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.accept(symAnd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(ctx visibility.Context) (bool, error) {
			hit, err := l(ctx)
			if err != nil || !hit {
				return hit, err
			}
			return r(ctx)
		}
	}
}

func (p *parser) unary() (predicate, error) {
	ok, err := p.accept(symBang)
	if err != nil {
		return nil, err
	}
	if ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return func(ctx visibility.Context) (bool, error) {
			hit, err := inner(ctx)
			return !hit, err
		}, nil
	}
	return p.operand()
}

func (p *parser) operand() (predicate, error) {
	ok, err := p.accept(symOpen)
	if err != nil {
		return nil, err
	}
	if ok {
		inner, err := p.disjunction()
		if err != nil {
			return nil, err
		}
		closed, err := p.accept(symClose)
		if err != nil {
			return nil, err
		}
		if !closed {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if p.cur.sym != symIdent {
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", p.cur.text)
	}
	ident := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	switch p.cur.sym {
	case symEq:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.comparison(ident, false)
	case symNe:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.comparison(ident, true)
	}

	return func(ctx visibility.Context) (bool, error) {
		value, ok := resolve(ctx, ident)
		return ok && truthy(value), nil
	}, nil
}

// comparison builds the predicate for `ident == literal` (negated for !=).
// The coercion applied to the record value follows the literal's type.
func (p *parser) comparison(ident string, negate bool) (predicate, error) {
	lit := p.cur
	if lit.sym == symEOF {
		return nil, errors.New("visibility/expr: missing literal")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var match func(value any) bool
	switch lit.sym {
	case symNull:
		match = func(value any) bool { return value == nil }
	case symBool:
		want := lit.text == "true"
		match = func(value any) bool {
			got, _ := asBool(value)
			return got == want
		}
	case symNumber:
		want, err := strconv.ParseFloat(lit.text, 64)
		if err != nil {
			return nil, fmt.Errorf("visibility/expr: invalid number literal %q", lit.text)
		}
		match = func(value any) bool {
			got, ok := asFloat(value)
			if !ok {
				got = 0
			}
			return got == want
		}
	case symString, symIdent:
		// A bare word on the right-hand side reads as a string, which keeps
		// hand-written rules forgiving about quoting.
		want := lit.text
		match = func(value any) bool { return asString(value) == want }
	default:
		return nil, fmt.Errorf("visibility/expr: expected literal, got %q", lit.text)
	}

	return func(ctx visibility.Context) (bool, error) {
		value, _ := resolve(ctx, ident)
		return match(value) != negate, nil
	}, nil
}

// resolve reads an identifier from the context. The `extras.` prefix switches
// the lookup to ctx.Extras.
func resolve(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if len(key) > len("extras.") && strings.EqualFold(key[:len("extras.")], "extras.") {
		return valueAt(ctx.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return valueAt(ctx.Values, key)
}

// valueAt walks a dot or slash separated path through nested maps. A key that
// matches verbatim wins over traversal so flattened records keep working.
func valueAt(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '.' || r == '/' })
	var current any = values
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, false
		}
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return truthy(value), true
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
