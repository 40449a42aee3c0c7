package vbind

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/pkg/vdom"
)

func TestStdMethodsFromTemplate(t *testing.T) {
	doc := mustDoc(t, `<div id="app">
		<p id="count">{{count}}</p>
		<p id="open" v-show="open">menu</p>
		<button id="inc" @click="inc('count')">+</button>
		<button id="inc5" @click="inc('count', 5)">+5</button>
		<button id="toggle" @click="toggle('open')">menu</button>
		<button id="reset" @click="set('count', 0)">reset</button>
	</div>`)
	vm := mustNew(t, Options{
		El:       "#app",
		Document: doc,
		Data:     map[string]any{"count": 1, "open": false},
		Methods:  StdMethods(),
	})

	click := func(id string) {
		find(t, vm, "#"+id).DispatchEvent(vdom.NewEvent(vdom.EventClick))
	}

	click("inc")
	click("inc5")
	if vm.Get("count") != 7 {
		t.Errorf("count = %#v, want int 7", vm.Get("count"))
	}
	if got := find(t, vm, "#count").TextContent(); got != "7" {
		t.Errorf("count text = %q", got)
	}

	click("toggle")
	if vm.Get("open") != true {
		t.Errorf("open = %v", vm.Get("open"))
	}
	if find(t, vm, "#open").HasAttr("style") {
		t.Error("menu should be shown")
	}

	click("reset")
	if vm.Get("count") != 0.0 {
		t.Errorf("count after reset = %#v", vm.Get("count"))
	}
	if len(vm.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", vm.Diagnostics())
	}
}

func TestStdMethodsLogAndMisuse(t *testing.T) {
	var buf bytes.Buffer
	vm, err := New(Options{
		Data:    map[string]any{"name": "x"},
		Methods: WithStdMethods(nil),
		Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}

	_ = vm.Call("log", "hello", 1)
	_ = vm.Call("inc", "name")
	_ = vm.Call("set", "only-key")

	out := buf.String()
	for _, want := range []string{"template log", "hello", "inc on a non-numeric value", "set expects"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if vm.Get("name") != "x" {
		t.Error("misused methods must not write")
	}
}

func TestWithStdMethodsOverride(t *testing.T) {
	called := false
	methods := WithStdMethods(map[string]Method{
		"inc": func(*VM, ...any) { called = true },
	})
	vm := mustNew(t, Options{Data: map[string]any{"n": 1}, Methods: methods})

	_ = vm.Call("inc", "n")
	if !called || vm.Get("n") != 1 {
		t.Error("user method should replace the built-in")
	}
	if _, ok := vm.Method("toggle"); !ok {
		t.Error("built-ins should remain available")
	}
}

func TestAddNumbers(t *testing.T) {
	tests := []struct {
		cur, step any
		want      any
		ok        bool
	}{
		{1, 1, 2, true},
		{1, 2.0, 3, true},
		{1, 0.5, 1.5, true},
		{int64(4), 1, int64(5), true},
		{1 << 60, 1, 1<<60 + 1, true},
		{int64(1) << 62, int32(-1), int64(1)<<62 - 1, true},
		{nil, int64(1)<<53 + 1, 1<<53 + 1, true},
		{1.5, 1, 2.5, true},
		{nil, 1, 1, true},
		{json.Number("2"), 1, 3.0, true},
		{"10", 1, 11.0, true},
		{"abc", 1, nil, false},
		{true, 1, nil, false},
		{1, "x", nil, false},
	}
	for _, tt := range tests {
		got, ok := addNumbers(tt.cur, tt.step)
		if ok != tt.ok || got != tt.want {
			t.Errorf("addNumbers(%#v, %#v) = %#v, %v; want %#v, %v", tt.cur, tt.step, got, ok, tt.want, tt.ok)
		}
	}
}
