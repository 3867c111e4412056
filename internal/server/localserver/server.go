// Package localserver provides the local management server.
//
// It listens on a Unix Domain Socket (UDS), providing local management
// access without going through the HTTP surface.
package localserver

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Server represents the local management server.
type Server struct {
	handler  *Handler
	listener net.Listener
	path     string
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New creates a new local server.
func New(socketPath string, handler *Handler) *Server {
	return &Server{
		handler: handler,
		path:    socketPath,
	}
}

// ListenAndServe starts the local server.
func (s *Server) ListenAndServe() error {
	// A previous unclean exit may have left the socket file behind.
	if err := removeStaleSocket(s.path); err != nil {
		return err
	}

	var err error
	s.listener, err = net.Listen("unix", s.path)
	if err != nil {
		return err
	}

	s.running.Store(true)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		// Track goroutine for graceful shutdown
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// Shutdown gracefully shuts down the server.
//
// This method:
//  1. Sets running flag to false
//  2. Closes the listener to stop accepting new connections
//  3. Waits for all active connections to finish (respects context timeout)
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var closeErr error
	if s.listener != nil {
		closeErr = s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleConnection serves a line-oriented command session: one command
// per line, arguments whitespace-separated, one reply per command.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := s.handler.Execute(conn, fields[0], fields[1:]); err != nil {
			return
		}
	}
}

// removeStaleSocket deletes a leftover socket file if nothing is
// listening on it. A live listener makes the bind fail as it should.
func removeStaleSocket(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if info.Mode()&os.ModeSocket == 0 {
		return nil
	}
	if conn, err := net.Dial("unix", path); err == nil {
		conn.Close()
		return nil
	}
	return os.Remove(path)
}
