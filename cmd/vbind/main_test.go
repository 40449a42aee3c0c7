package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
)

const counterPage = `<!DOCTYPE html>
<html><head><title>t</title></head><body><div id="app"><p>{{msg}}</p><button id="inc" @click="inc('count')">{{count}}</button></div></body></html>`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRenderCounter(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": counterPage,
		"data.yaml": "msg: hi\ncount: 1\n",
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "initial",
			want: `<div id="app"><p>hi</p><button id="inc">1</button></div>`,
		},
		{
			name: "click",
			args: []string{"--event", "#inc@click"},
			want: `<div id="app"><p>hi</p><button id="inc">2</button></div>`,
		},
		{
			name: "writes then events",
			args: []string{"--event", "#inc@click", "--set", "count=5", "--set", "msg=there"},
			want: `<div id="app"><p>there</p><button id="inc">6</button></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{
				"render", "-t", filepath.Join(dir, "page.html"), "-d", filepath.Join(dir, "data.yaml"),
				"--el", "#app", "--fragment", "--strip",
			}, tt.args...)
			out, _, err := execute(t, args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRenderDocument(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": counterPage,
		"data.json": `{"msg": "hello", "count": 0}`,
	})
	out, _, err := execute(t, "render", "-t", filepath.Join(dir, "page.html"), "-d", filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html><html>") {
		t.Errorf("expected a full document, got %q", out)
	}
	if !strings.Contains(out, `<p>hello</p>`) || !strings.Contains(out, `@click="inc(&#39;count&#39;)"`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRenderInputEvent(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": `<body><input name="who" v-model="name"><span v-text="name"></span></body>`,
		"data.toml": "name = \"\"\n",
	})
	out, _, err := execute(t, "render", "-t", filepath.Join(dir, "page.html"), "-d", filepath.Join(dir, "data.toml"),
		"--fragment", "--event", "input[name=who]@input=Ann")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<span v-text=\"name\">Ann</span>") {
		t.Errorf("model binding not applied: %q", out)
	}
}

func TestRenderWithConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"vbind.yaml": "template: page.html\ndata: data.yaml\nel: \"#app\"\n",
		"page.html":  counterPage,
		"data.yaml":  "msg: from config\ncount: 3\n",
	})
	out, _, err := execute(t, "render", "-c", filepath.Join(dir, "vbind.yaml"), "--fragment", "--strip")
	if err != nil {
		t.Fatal(err)
	}
	want := `<div id="app"><p>from config</p><button id="inc">3</button></div>`
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRenderDiagnostics(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": `<body><button @click="missing()">x</button></body>`,
	})
	page := filepath.Join(dir, "page.html")

	_, stderr, err := execute(t, "render", "-t", page)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, errors.CodeUnresolvedHandler) {
		t.Errorf("expected %s warning, got %q", errors.CodeUnresolvedHandler, stderr)
	}

	if _, _, err := execute(t, "render", "-t", page, "--strict"); err == nil {
		t.Error("expected --strict to fail")
	}
}

func TestRenderErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": counterPage,
		"bad.json":  `{"msg": `,
	})
	page := filepath.Join(dir, "page.html")

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no template", []string{"render", "-c", filepath.Join(dir, "missing.yaml")}, errors.CodeConfigNotFound},
		{"missing template", []string{"render", "-t", filepath.Join(dir, "nope.html")}, errors.CodeSourceLoad},
		{"bad data", []string{"render", "-t", page, "-d", filepath.Join(dir, "bad.json")}, errors.CodeSourceDecode},
		{"bad set", []string{"render", "-t", page, "--set", "novalue"}, errors.CodeConfigInvalid},
		{"bad event", []string{"render", "-t", page, "--event", "#inc"}, errors.CodeConfigInvalid},
		{"unknown target", []string{"render", "-t", page, "--event", "#nope@click"}, errors.CodeUnknownTarget},
		{"missing root", []string{"render", "-t", page, "--el", "#nope"}, errors.CodeMissingRoot},
		{"bad selector", []string{"render", "-t", page, "--el", "[["}, errors.CodeBadRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		value any
	}{
		{"n=3", "n", 3},
		{"ok=true", "ok", true},
		{"msg=hello world", "msg", "hello world"},
		{"empty=", "empty", nil},
		{"s='3'", "s", "3"},
	}
	for _, tt := range tests {
		key, value, err := parseSet(tt.in)
		if err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if key != tt.key || value != tt.value {
			t.Errorf("parseSet(%q) = %q, %#v", tt.in, key, value)
		}
	}
}

func TestParseEventArg(t *testing.T) {
	tests := []struct {
		in       string
		sel      string
		typ      string
		value    string
		hasValue bool
		wantErr  bool
	}{
		{in: "#inc@click", sel: "#inc", typ: "click"},
		{in: "#e@input=a@b.com", sel: "#e", typ: "input", value: "a@b.com", hasValue: true},
		{in: "input[name=who]@input=Ann", sel: "input[name=who]", typ: "input", value: "Ann", hasValue: true},
		{in: "#e@input=", sel: "#e", typ: "input", hasValue: true},
		{in: "#e@change=x=y", sel: "#e", typ: "change", value: "x=y", hasValue: true},
		{in: "#inc", wantErr: true},
		{in: "#inc@", wantErr: true},
		{in: "@click", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sel, typ, value, hasValue, err := parseEventArg(tt.in)
			if tt.wantErr {
				if !errors.HasCode(err, errors.CodeConfigInvalid) {
					t.Fatalf("expected VB005, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if sel != tt.sel || typ != tt.typ || value != tt.value || hasValue != tt.hasValue {
				t.Errorf("got (%q, %q, %q, %v)", sel, typ, value, hasValue)
			}
		})
	}
}

func TestRenderInputValueWithAt(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": `<body><input id="e" v-model="email"><span v-text="email"></span></body>`,
	})
	out, _, err := execute(t, "render", "-t", filepath.Join(dir, "page.html"),
		"--fragment", "--strip", "--event", "#e@input=a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<span>a@b.com</span>") {
		t.Errorf("value with @ not applied: %q", out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("got %q", out)
	}
}
