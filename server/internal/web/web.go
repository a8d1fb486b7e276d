package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/websocket"
)

// Options lists the handlers to mount. Nil handlers are not mounted.
type Options struct {
	WSPath string
	Hub    http.Handler

	API http.Handler // mounted at /api/

	MetricsPath string
	Metrics     http.Handler

	UIDir string
}

// New returns the root handler.
func New(opts Options) http.Handler {
	mux := http.NewServeMux()

	if opts.API != nil {
		mux.Handle("/api/", opts.API)
	}
	if opts.Metrics != nil && opts.MetricsPath != "" {
		mux.Handle(opts.MetricsPath, opts.Metrics)
	}

	var ui http.Handler
	if opts.UIDir != "" {
		ui = spa(opts.UIDir)
	}

	wsPath := opts.WSPath
	if wsPath == "" {
		wsPath = "/"
	}

	switch {
	case ui != nil && wsPath == "/":
		mux.Handle("/", upgradeOr(opts.Hub, ui))
	case ui != nil:
		mux.Handle(wsPath, opts.Hub)
		mux.Handle("/", ui)
	default:
		mux.Handle(wsPath, opts.Hub)
	}
	return mux
}

// upgradeOr routes WebSocket upgrade requests to hub and everything else to next.
func upgradeOr(hub, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			hub.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// spa serves files from dir, answering index.html for paths that don't exist.
func spa(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+strings.TrimPrefix(r.URL.Path, "/"))))
		if _, err := os.Stat(clean); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}
