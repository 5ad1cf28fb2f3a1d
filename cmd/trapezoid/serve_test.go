package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/trapezoid/web"
)

func TestSiteHandler(t *testing.T) {
	dir := t.TempDir()
	wasm := filepath.Join(dir, "main.wasm")
	exec := filepath.Join(dir, "wasm_exec.js")
	if err := os.WriteFile(wasm, []byte("\x00asm"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(exec, []byte("// shim"), 0o600); err != nil {
		t.Fatal(err)
	}
	h := newSiteHandler(wasm, exec)

	tests := []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{"/", http.StatusOK, "text/html", string(web.Index)},
		{"/main.wasm", http.StatusOK, "application/wasm", "\x00asm"},
		{"/wasm_exec.js", http.StatusOK, "text/javascript", "// shim"},
		{"/other", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if rec.Body.String() != tt.body {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestIndexHasCanvas(t *testing.T) {
	if !strings.Contains(string(web.Index), `id="`+web.CanvasID+`"`) {
		t.Error("index.html has no canvas element with the expected id")
	}
}
