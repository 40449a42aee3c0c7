package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/vbind/pkg/live"
)

func TestWatchProjectReloads(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": `<body><p>{{msg}}</p></body>`,
		"data.yaml": "msg: one\n",
	})
	flags := projectFlags{
		template: filepath.Join(dir, "page.html"),
		data:     filepath.Join(dir, "data.yaml"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := flags.load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := live.New(live.Config{Template: p.markup, Data: p.data})
	if err != nil {
		t.Fatal(err)
	}
	go watchProject(ctx, srv, &flags, p.localPaths())

	page := func() string {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		return rec.Body.String()
	}
	if !strings.Contains(page(), "<p>one</p>") {
		t.Fatalf("initial page: %s", page())
	}

	time.Sleep(300 * time.Millisecond)
	later := time.Now().Add(time.Minute)
	path := filepath.Join(dir, "data.yaml")
	if err := os.WriteFile(path, []byte("msg: two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Chtimes(path, later, later)

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(page(), "<p>two</p>") {
		if time.Now().After(deadline) {
			t.Fatalf("page not reloaded: %s", page())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestServeRejectsMissingTemplate(t *testing.T) {
	_, _, err := execute(t, "serve", "-t", filepath.Join(t.TempDir(), "missing.html"))
	if err == nil {
		t.Fatal("expected an error")
	}
}
