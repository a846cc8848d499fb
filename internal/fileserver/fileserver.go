// Package fileserver hosts a directory over HTTP for file transfer
// operations, such as pushing firmware images to a BMC.
package fileserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Server is a non-blocking HTTP file server.
type Server struct {
	path string
	port int

	url string
	srv *http.Server
	ln  net.Listener
}

// New returns a server for path on the given port.  An empty path
// serves the working directory; a file path serves its parent
// directory.  A port of 0 picks a free one.
func New(path string, port int) (*Server, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = wd
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}
	return &Server{path: path, port: port}, nil
}

// URL returns the server root URL.  It is empty until Start.
func (s *Server) URL() string {
	return s.url
}

// Path returns the hosted directory.
func (s *Server) Path() string {
	return s.path
}

// Start brings up the listener and begins serving in the background.
// When Start returns, the URL is available and the server accepts
// requests.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return err
	}
	s.ln = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.url = fmt.Sprintf("http://127.0.0.1:%d", s.port)

	s.srv = &http.Server{Handler: http.FileServer(http.Dir(s.path))}
	go func() {
		// ErrServerClosed is the normal Stop outcome.
		_ = s.srv.Serve(ln)
	}()
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight
// requests to finish.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
