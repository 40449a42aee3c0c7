package compile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHandler(t *testing.T) {
	tests := []struct {
		exp     string
		method  string
		args    []arg
		problem bool
	}{
		{exp: "go", method: "go"},
		{exp: "  go  ", method: "go"},
		{exp: "go()", method: "go"},
		{exp: "go( )", method: "go"},
		{exp: "greet('hi')", method: "greet", args: []arg{{kind: argLiteral, value: "hi"}}},
		{exp: "greet('a(b)')", method: "greet", args: []arg{{kind: argLiteral, value: "a(b)"}}},
		{exp: "f(x, $event)", method: "f", args: []arg{{kind: argIdent, name: "x"}, {kind: argEvent}}},
		{exp: "", problem: true},
		{exp: "a.b()", method: "a.b", problem: true},
		{exp: "go(1", method: "go", problem: true},
		{exp: "go(1,)", method: "go", problem: true},
	}

	for _, tt := range tests {
		t.Run(tt.exp, func(t *testing.T) {
			h := parseHandler(tt.exp)
			if (h.problem != "") != tt.problem {
				t.Fatalf("problem = %q, want problem %v", h.problem, tt.problem)
			}
			if tt.problem {
				return
			}
			if h.method != tt.method {
				t.Errorf("method = %q, want %q", h.method, tt.method)
			}
			if diff := cmp.Diff(tt.args, h.args, cmp.AllowUnexported(arg{})); diff != "" {
				t.Errorf("args (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArgsLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want []any
	}{
		{`'a', "b"`, []any{"a", "b"}},
		{`'it\'s', "say \"x\"", '\n\t\\'`, []any{"it's", `say "x"`, "\n\t\\"}},
		{`'é'`, []any{"é"}},
		{`1, -2, 3.5, .5, +4, 1e3, -2.5E-1`, []any{1.0, -2.0, 3.5, 0.5, 4.0, 1000.0, -0.25}},
		{`true,false , null,undefined`, []any{true, false, nil, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			args, err := parseArgs(tt.src)
			if err != nil {
				t.Fatalf("parseArgs: %v", err)
			}
			var got []any
			for _, a := range args {
				if a.kind != argLiteral {
					t.Fatalf("expected literal, got kind %d", a.kind)
				}
				got = append(got, a.value)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArgsRejectsCode(t *testing.T) {
	for _, src := range []string{
		`1 + 2`,
		`alert('x')`,
		`a.b`,
		`a[0]`,
		`'unterminated`,
		`-`,
		`1e`,
		`x = 1`,
		`,`,
		`'\u12'`,
		"`tmpl`",
	} {
		if _, err := parseArgs(src); err == nil {
			t.Errorf("parseArgs(%q) accepted", src)
		}
	}
}

func TestCachedParseHandler(t *testing.T) {
	a := cachedParseHandler("f(1, 'x')")
	b := cachedParseHandler("f(1, 'x')")
	if &a.args[0] != &b.args[0] {
		t.Error("expected the memoized argument slice to be shared")
	}
}
