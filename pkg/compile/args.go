package compile

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/util"
)

// argKind is the kind of one parsed handler argument.
type argKind uint8

const (
	argLiteral argKind = iota
	argIdent
	argEvent
)

// arg is one element of a handler argument list.
type arg struct {
	kind  argKind
	value any    // literal value
	name  string // identifier name
}

// handlerExpr is a parsed event handler attribute value, e.g. greet('hi', n).
type handlerExpr struct {
	method string
	args   []arg

	// problem describes a syntax error; the expression is unusable when set.
	problem string
}

// parseHandler splits a handler expression into a method name and its
// argument list. A name without parentheses is called with no arguments.
func parseHandler(exp string) handlerExpr {
	exp = strings.TrimSpace(exp)
	name, rest, hasArgs := strings.Cut(exp, "(")
	name = strings.TrimSpace(name)
	h := handlerExpr{method: name}

	if !isIdent(name) {
		h.problem = fmt.Sprintf("%q is not a method name", name)
		return h
	}
	if !hasArgs {
		return h
	}
	if !strings.HasSuffix(rest, ")") {
		h.problem = fmt.Sprintf("missing closing parenthesis in %q", exp)
		return h
	}
	args, err := parseArgs(rest[:len(rest)-1])
	if err != nil {
		h.problem = err.Detail
		return h
	}
	h.args = args
	return h
}

// cachedParseHandler memoizes parseHandler per distinct expression text.
// The returned argument slices are shared and must not be modified.
var cachedParseHandler = util.Cached(parseHandler)

// parseArgs parses a comma-separated argument list. Only literals,
// identifiers and $event are accepted; nothing is ever evaluated as code.
func parseArgs(src string) ([]arg, *errors.Error) {
	p := &argParser{src: src}
	var out []arg

	p.skipSpace()
	if p.done() {
		return nil, nil
	}
	for {
		a, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		out = append(out, a)

		p.skipSpace()
		if p.done() {
			return out, nil
		}
		if p.src[p.pos] != ',' {
			return nil, p.errorf("expected ',' but found %q", p.peekRune())
		}
		p.pos++
		p.skipSpace()
		if p.done() {
			return nil, p.errorf("missing argument after ','")
		}
	}
}

type argParser struct {
	src string
	pos int
}

func (p *argParser) done() bool { return p.pos >= len(p.src) }

func (p *argParser) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *argParser) skipSpace() {
	for !p.done() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *argParser) errorf(format string, args ...any) *errors.Error {
	return errors.New(errors.CodeBadArguments).
		WithDetailf("%s at offset %d in %q", fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *argParser) parseArg() (arg, *errors.Error) {
	c := p.src[p.pos]
	switch {
	case c == '\'' || c == '"':
		s, err := p.parseString(c)
		if err != nil {
			return arg{}, err
		}
		return arg{kind: argLiteral, value: s}, nil
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		n, err := p.parseNumber()
		if err != nil {
			return arg{}, err
		}
		return arg{kind: argLiteral, value: n}, nil
	case isIdentStart(rune(c)):
		start := p.pos
		for !p.done() && isIdentPart(rune(p.src[p.pos])) {
			p.pos++
		}
		word := p.src[start:p.pos]
		switch word {
		case "true":
			return arg{kind: argLiteral, value: true}, nil
		case "false":
			return arg{kind: argLiteral, value: false}, nil
		case "null", "undefined":
			return arg{kind: argLiteral, value: nil}, nil
		case "$event":
			return arg{kind: argEvent}, nil
		}
		return arg{kind: argIdent, name: word}, nil
	}
	return arg{}, p.errorf("unexpected %q", p.peekRune())
}

func (p *argParser) parseString(quote byte) (string, *errors.Error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for !p.done() {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			p.pos++
			if p.done() {
				break
			}
			if err := p.parseEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	p.pos = start
	return "", p.errorf("unterminated string")
}

func (p *argParser) parseEscape(b *strings.Builder) *errors.Error {
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case 'u':
		if p.pos+4 > len(p.src) {
			return p.errorf("short unicode escape")
		}
		r, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 32)
		if err != nil {
			return p.errorf("bad unicode escape")
		}
		b.WriteRune(rune(r))
		p.pos += 4
	default:
		// \\, \', \" and any other escaped character stand for themselves.
		b.WriteByte(c)
	}
	return nil
}

func (p *argParser) parseNumber() (float64, *errors.Error) {
	start := p.pos
	if c := p.src[p.pos]; c == '-' || c == '+' {
		p.pos++
	}
	for !p.done() {
		c := p.src[p.pos]
		if isDigit(c) || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	text := p.src[start:p.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf("invalid number %q", text)
	}
	return n, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// isIdent reports whether s is a valid method or property name.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
