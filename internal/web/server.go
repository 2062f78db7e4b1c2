// Package web serves the status page of a running sample: an HTML view at /
// and the same snapshot as JSON at /index.json.
package web

import (
	"bytes"
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/sweeney/board-samples/internal/status"
)

// Server is the status HTTP server for one sample.
type Server struct {
	tracker *status.Tracker
	http    *http.Server
}

// New returns a Server for tracker. addr is informational when the server
// is started with Serve.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// routes only answers GET and HEAD; the mux replies 405 to anything else and
// 404 to paths not listed here.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.servePage)
	mux.HandleFunc("GET /index.html", s.servePage)
	mux.HandleFunc("GET /index.json", s.serveJSON)
	return mux
}

// Handler returns the request router, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.http.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := renderHTML(&buf, s.tracker.Snapshot()); err != nil {
		log.Printf("web: render page: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	noStore(w, "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) serveJSON(w http.ResponseWriter, r *http.Request) {
	noStore(w, "application/json")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}

// noStore sets the content type and keeps browsers from caching a live value.
func noStore(w http.ResponseWriter, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
}
