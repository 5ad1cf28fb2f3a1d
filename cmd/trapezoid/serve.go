package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/trapezoid/web"
)

var (
	serveAddr    string
	wasmPath     string
	wasmExecPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser build",
	Long: `Serves the host page, the Go wasm runtime shim and the module built from
./cmd/trapezoid-wasm with GOOS=js GOARCH=wasm. The shim ships with Go in
$(go env GOROOT)/lib/wasm/wasm_exec.js.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           loggingMiddleware(newSiteHandler(wasmPath, wasmExecPath)),
			ReadHeaderTimeout: 10 * time.Second,
		}
		slog.Info("Starting HTTP server", "addr", serveAddr, "wasm", wasmPath)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&wasmPath, "wasm", "main.wasm", "Path to the compiled wasm module")
	serveCmd.Flags().StringVar(&wasmExecPath, "wasm-exec", "wasm_exec.js", "Path to wasm_exec.js")
	rootCmd.AddCommand(serveCmd)
}

// newSiteHandler routes the three files the page needs.
func newSiteHandler(wasm, wasmExec string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(web.Index)
	})
	mux.HandleFunc("GET /main.wasm", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/wasm")
		http.ServeFile(w, r, wasm)
	})
	mux.HandleFunc("GET /wasm_exec.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		http.ServeFile(w, r, wasmExec)
	})
	return mux
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
